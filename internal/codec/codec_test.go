package codec

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
)

func TestJSON(t *testing.T) {
	t.Run("Round trip of a grid", func(t *testing.T) {
		// Given: a grid with both marks
		grid := entity.EmptyGrid().With(0, entity.PlayerX).With(8, entity.PlayerO)
		c := JSON[entity.Grid]{}

		// When: encoding and decoding it
		text, err := c.Encode(grid)
		require.NoError(t, err)
		decoded, err := c.Decode(text)

		// Then: the same grid comes back
		require.NoError(t, err)
		assert.Equal(t, grid, decoded)
	})

	t.Run("Malformed text is an error", func(t *testing.T) {
		_, err := JSON[entity.Grid]{}.Decode("{not json")

		assert.Error(t, err)
	})

	t.Run("Scalar values", func(t *testing.T) {
		c := JSON[string]{}

		text, err := c.Encode("kody")
		require.NoError(t, err)
		assert.Equal(t, `"kody"`, text)

		decoded, err := c.Decode(text)
		require.NoError(t, err)
		assert.Equal(t, "kody", decoded)
	})
}

func TestYAML(t *testing.T) {
	t.Run("Round trip of a grid", func(t *testing.T) {
		grid := entity.EmptyGrid().With(4, entity.PlayerX)
		c := YAML[entity.Grid]{}

		text, err := c.Encode(grid)
		require.NoError(t, err)
		decoded, err := c.Decode(text)

		require.NoError(t, err)
		assert.Equal(t, grid, decoded)
	})

	t.Run("Short grid is an error", func(t *testing.T) {
		_, err := YAML[entity.Grid]{}.Decode("[X, O]")

		assert.ErrorIs(t, err, entity.ErrInvalidGridSize)
	})
}

func TestFuncs(t *testing.T) {
	t.Run("Uses the given pair", func(t *testing.T) {
		// Given: a codec that stores integers in base 16
		c := Funcs[int]{
			Serialize: func(v int) (string, error) { return strconv.FormatInt(int64(v), 16), nil },
			Deserialize: func(s string) (int, error) {
				v, err := strconv.ParseInt(s, 16, 64)
				return int(v), err
			},
		}

		// When: encoding 255
		text, err := c.Encode(255)
		require.NoError(t, err)

		// Then: the custom format is used both ways
		assert.Equal(t, "ff", text)
		decoded, err := c.Decode(text)
		require.NoError(t, err)
		assert.Equal(t, 255, decoded)
	})

	t.Run("Missing side falls back to JSON", func(t *testing.T) {
		c := Funcs[[]int]{}

		text, err := c.Encode([]int{1, 2})
		require.NoError(t, err)
		assert.Equal(t, "[1,2]", text)

		decoded, err := c.Decode(text)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, decoded)
	})
}
