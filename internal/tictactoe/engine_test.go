package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
)

const (
	x = entity.PlayerX
	o = entity.PlayerO
	e = entity.EmptyCell
)

func TestNextMark(t *testing.T) {
	t.Run("X opens the game", func(t *testing.T) {
		assert.Equal(t, x, NextMark(entity.EmptyGrid()))
	})

	t.Run("O plays after an odd number of marks", func(t *testing.T) {
		grid := entity.Grid{x, e, e, e, e, e, e, e, e}
		assert.Equal(t, o, NextMark(grid))
	})

	t.Run("Parity is all that matters", func(t *testing.T) {
		// Given: a grid where X has played twice in a row
		grid := entity.Grid{x, x, e, e, e, e, e, e, e}

		// Then: the count is even, so X is next again
		assert.Equal(t, x, NextMark(grid))
	})
}

func TestWinner(t *testing.T) {
	t.Run("Every line is detected", func(t *testing.T) {
		for _, combo := range WinCombos {
			// Given: a grid with only one complete line of O
			grid := entity.EmptyGrid()
			for _, cell := range combo {
				grid[cell] = o
			}

			// When: looking for a winner
			winner, ok := Winner(grid)

			// Then: O is found
			require.True(t, ok, "combo %v", combo)
			assert.Equal(t, o, winner)
		}
	})

	t.Run("No winner on an ongoing board", func(t *testing.T) {
		grid := entity.Grid{x, o, x, e, o, e, x, e, e}

		_, ok := Winner(grid)

		assert.False(t, ok)
	})

	t.Run("Does not crash on an impossible board", func(t *testing.T) {
		// Given: both players own a full row
		grid := entity.Grid{x, x, x, o, o, o, e, e, e}

		// When: looking for a winner
		winner, ok := Winner(grid)

		// Then: some winner is returned
		assert.True(t, ok)
		assert.Contains(t, []entity.Mark{x, o}, winner)
	})
}

func TestStatus(t *testing.T) {
	t.Run("Win on a full board is not a draw", func(t *testing.T) {
		// Given: a full board where X completed the diagonal with the last move
		grid := entity.Grid{x, o, o, o, x, x, x, o, x}
		require.True(t, IsFull(grid))

		// When: evaluating the status
		status := Status(grid)

		// Then: X has won
		assert.Equal(t, entity.Won(x), status)
	})

	t.Run("Draw", func(t *testing.T) {
		grid := entity.Grid{o, x, o, o, x, x, x, o, x}

		assert.Equal(t, entity.Draw(), Status(grid))
	})

	t.Run("In progress carries the next mark", func(t *testing.T) {
		grid := entity.Grid{x, e, e, e, e, e, e, e, e}

		assert.Equal(t, entity.InProgress(o), Status(grid))
	})
}

func TestPlay(t *testing.T) {
	t.Run("Places the next mark on a copy", func(t *testing.T) {
		// Given: an empty grid
		grid := entity.EmptyGrid()

		// When: X plays the center
		next, err := Play(grid, 4)

		// Then: only the copy holds the mark
		require.NoError(t, err)
		assert.Equal(t, x, next[4])
		assert.Equal(t, e, grid[4])
	})

	t.Run("Error on cell already occupied", func(t *testing.T) {
		grid := entity.Grid{x, e, e, e, e, e, e, e, e}

		_, err := Play(grid, 0)

		require.ErrorIs(t, err, apperror.ErrCellOccupied)
	})

	t.Run("Invalid Cell", func(t *testing.T) {
		_, err := Play(entity.EmptyGrid(), 20)

		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Invalid Negative Cell", func(t *testing.T) {
		_, err := Play(entity.EmptyGrid(), -1)

		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
	})

	t.Run("Move After Game Finished", func(t *testing.T) {
		// Given: a game where player X has already won
		grid := entity.Grid{x, x, x, e, o, e, e, o, e}

		// When: player O tries to play an empty cell
		_, err := Play(grid, 3)

		// Then: the game is reported finished
		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Move After Tie", func(t *testing.T) {
		grid := entity.Grid{o, x, o, o, x, x, x, o, x}

		_, err := Play(grid, 3)

		assert.ErrorIs(t, err, apperror.ErrGameFinished)
	})
}

func TestStatusText(t *testing.T) {
	assert.Equal(t, "Winner: X", StatusText(entity.Won(x)))
	assert.Equal(t, "Next player: O", StatusText(entity.InProgress(o)))
	assert.Equal(t, "Scratch: Cat's game", StatusText(entity.Draw()))
}
