package tictactoe

import (
	"fmt"
	"strings"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
)

// Notation writes a grid row-major as nine characters, '.' for an empty cell: "X...O...."
func Notation(grid entity.Grid) string {
	var b strings.Builder
	b.Grow(entity.GridSize)

	for _, mark := range grid {
		if mark == entity.EmptyCell {
			b.WriteByte('.')
			continue
		}
		b.WriteString(string(mark))
	}

	return b.String()
}

// ParseNotation reads what Notation writes.
func ParseNotation(s string) (entity.Grid, error) {
	var grid entity.Grid

	if len(s) != entity.GridSize {
		return grid, fmt.Errorf("%w: got %d", entity.ErrInvalidGridSize, len(s))
	}

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '.':
			grid[i] = entity.EmptyCell
		case 'X':
			grid[i] = entity.PlayerX
		case 'O':
			grid[i] = entity.PlayerO
		default:
			return grid, fmt.Errorf("%w: %q at %d", entity.ErrInvalidMark, s[i], i)
		}
	}

	return grid, nil
}
