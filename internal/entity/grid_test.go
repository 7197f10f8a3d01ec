package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid_JSON(t *testing.T) {
	t.Run("Empty cells are encoded as null", func(t *testing.T) {
		// Given: a grid with two marks
		grid := EmptyGrid().With(0, PlayerX).With(4, PlayerO)

		// When: encoding it
		data, err := json.Marshal(grid)
		require.NoError(t, err)

		// Then: empty cells are null
		assert.JSONEq(t, `["X",null,null,null,"O",null,null,null,null]`, string(data))
	})

	t.Run("Decodes a board written by a browser", func(t *testing.T) {
		// Given: the text a browser board leaves in local storage
		data := []byte(`[null,"O",null,null,"X",null,null,null,"X"]`)

		// When: decoding it
		var grid Grid
		err := json.Unmarshal(data, &grid)

		// Then: marks land on their cells
		require.NoError(t, err)
		assert.Equal(t, Grid{EmptyCell, PlayerO, EmptyCell, EmptyCell, PlayerX, EmptyCell, EmptyCell, EmptyCell, PlayerX}, grid)
	})

	t.Run("Rejects a board with the wrong number of cells", func(t *testing.T) {
		// Given: an eight-cell board
		data := []byte(`[null,null,null,null,null,null,null,null]`)

		// When: decoding it
		var grid Grid
		err := json.Unmarshal(data, &grid)

		// Then: the size error is reported
		assert.ErrorIs(t, err, ErrInvalidGridSize)
	})

	t.Run("Rejects unknown marks", func(t *testing.T) {
		// Given: a board with a foreign mark
		data := []byte(`["Z",null,null,null,null,null,null,null,null]`)

		// When: decoding it
		var grid Grid
		err := json.Unmarshal(data, &grid)

		// Then: the mark error is reported
		assert.ErrorIs(t, err, ErrInvalidMark)
	})
}

func TestGrid_With(t *testing.T) {
	// Given: an empty grid
	grid := EmptyGrid()

	// When: placing a mark
	next := grid.With(3, PlayerX)

	// Then: the source grid is untouched
	assert.Equal(t, EmptyCell, grid[3])
	assert.Equal(t, PlayerX, next[3])
}

func TestGameStatus(t *testing.T) {
	t.Run("In progress exposes only the next mark", func(t *testing.T) {
		status := InProgress(PlayerO)

		next, ok := status.NextMark()
		assert.True(t, ok)
		assert.Equal(t, PlayerO, next)

		_, ok = status.Winner()
		assert.False(t, ok)
	})

	t.Run("Won exposes only the winner", func(t *testing.T) {
		status := Won(PlayerX)

		winner, ok := status.Winner()
		assert.True(t, ok)
		assert.Equal(t, PlayerX, winner)

		_, ok = status.NextMark()
		assert.False(t, ok)
	})

	t.Run("Draw exposes neither", func(t *testing.T) {
		status := Draw()

		_, ok := status.Winner()
		assert.False(t, ok)
		_, ok = status.NextMark()
		assert.False(t, ok)
		assert.Equal(t, StatusDraw, status.Kind())
	})

	t.Run("Encodes the variant as JSON", func(t *testing.T) {
		data, err := json.Marshal(Won(PlayerO))
		require.NoError(t, err)
		assert.JSONEq(t, `{"state":"won","winner":"O"}`, string(data))

		data, err = json.Marshal(InProgress(PlayerX))
		require.NoError(t, err)
		assert.JSONEq(t, `{"state":"in_progress","next":"X"}`, string(data))

		data, err = json.Marshal(Draw())
		require.NoError(t, err)
		assert.JSONEq(t, `{"state":"draw"}`, string(data))
	})
}
