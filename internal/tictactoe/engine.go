package tictactoe

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
)

var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// NextMark - X plays when an even number of cells is taken, O otherwise.
func NextMark(grid entity.Grid) entity.Mark {
	taken := 0
	for _, cell := range grid {
		if cell != entity.EmptyCell {
			taken++
		}
	}

	if taken%2 == 0 {
		return entity.PlayerX
	}
	return entity.PlayerO
}

// Winner - returns the mark of the first complete line.
func Winner(grid entity.Grid) (entity.Mark, bool) {
	for _, combo := range WinCombos {
		a, b, c := grid[combo[0]], grid[combo[1]], grid[combo[2]]
		if a != entity.EmptyCell && a == b && b == c {
			return a, true
		}
	}

	return entity.EmptyCell, false
}

// IsFull - true when no cell is empty.
func IsFull(grid entity.Grid) bool {
	for _, cell := range grid {
		if cell == entity.EmptyCell {
			return false
		}
	}

	return true
}

// Status - a win beats a full board.
func Status(grid entity.Grid) entity.GameStatus {
	if winner, ok := Winner(grid); ok {
		return entity.Won(winner)
	}

	if IsFull(grid) {
		return entity.Draw()
	}

	return entity.InProgress(NextMark(grid))
}

// ValidateMove - checks if the move is legal on the grid.
func ValidateMove(grid entity.Grid, cell int) error {
	if cell < 0 || cell >= len(grid) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if !Status(grid).IsInProgress() {
		return apperror.ErrGameFinished
	}

	if grid[cell] != entity.EmptyCell {
		return apperror.ErrCellOccupied
	}

	return nil
}

// Play - returns a copy of the grid with the next mark placed at cell.
func Play(grid entity.Grid, cell int) (entity.Grid, error) {
	if err := ValidateMove(grid, cell); err != nil {
		return grid, fmt.Errorf("invalid turn: %w", err)
	}

	return grid.With(cell, NextMark(grid)), nil
}

// StatusText - the line shown above the board.
func StatusText(status entity.GameStatus) string {
	if winner, ok := status.Winner(); ok {
		return "Winner: " + string(winner)
	}

	if next, ok := status.NextMark(); ok {
		return "Next player: " + string(next)
	}

	return "Scratch: Cat's game"
}
