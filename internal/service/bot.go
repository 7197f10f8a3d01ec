package service

import (
	"errors"
	"math/rand"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/tictactoe"
)

var ErrNoAvailableMoves = errors.New("no available moves")

// BotService picks a cell for whoever's turn it is.
type BotService interface {
	ChooseCell(grid entity.Grid) (int, error)
}

type botService struct {
	intn func(n int) int
}

func NewBotService() BotService {
	return &botService{intn: rand.Intn}
}

// NewBotServiceWithSource - bot with a seeded source, for reproducible games.
func NewBotServiceWithSource(src rand.Source) BotService {
	return &botService{intn: rand.New(src).Intn} //nolint: gosec // it's ok
}

// ChooseCell - wins when it can, blocks when it must, otherwise picks a random free cell.
func (that *botService) ChooseCell(grid entity.Grid) (int, error) {
	if !tictactoe.Status(grid).IsInProgress() {
		return 0, ErrNoAvailableMoves
	}

	availableCells := make([]int, 0, len(grid))
	for i, cell := range grid {
		if cell == entity.EmptyCell {
			availableCells = append(availableCells, i)
		}
	}

	me := tictactoe.NextMark(grid)
	if cell, ok := completingCell(grid, availableCells, me); ok {
		return cell, nil
	}

	if cell, ok := completingCell(grid, availableCells, opponent(me)); ok {
		return cell, nil
	}

	return availableCells[that.intn(len(availableCells))], nil
}

func completingCell(grid entity.Grid, available []int, mark entity.Mark) (int, bool) {
	for _, cell := range available {
		if winner, ok := tictactoe.Winner(grid.With(cell, mark)); ok && winner == mark {
			return cell, true
		}
	}

	return 0, false
}

func opponent(mark entity.Mark) entity.Mark {
	if mark == entity.PlayerX {
		return entity.PlayerO
	}
	return entity.PlayerX
}
