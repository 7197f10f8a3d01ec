package entity

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Mark is the occupant of one cell.
type Mark string

const (
	EmptyCell Mark = ""
	PlayerX   Mark = "X"
	PlayerO   Mark = "O"
)

// GridSize is the number of cells of a 3x3 board.
const GridSize = 9

var (
	ErrInvalidMark     = errors.New("invalid mark")
	ErrInvalidGridSize = errors.New("grid must have exactly 9 cells")
)

// Valid reports whether the mark is one of the three known values.
func (that Mark) Valid() bool {
	switch that {
	case EmptyCell, PlayerX, PlayerO:
		return true
	default:
		return false
	}
}

func (that Mark) String() string {
	if that == EmptyCell {
		return " "
	}
	return string(that)
}

// MarshalJSON encodes an empty cell as null, the same way a browser board stores it.
func (that Mark) MarshalJSON() ([]byte, error) {
	if that == EmptyCell {
		return []byte("null"), nil
	}
	return json.Marshal(string(that))
}

func (that *Mark) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*that = EmptyCell
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidMark, data)
	}

	mark := Mark(raw)
	if !mark.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, raw)
	}

	*that = mark
	return nil
}

func (that Mark) MarshalYAML() (any, error) {
	if that == EmptyCell {
		return nil, nil
	}
	return string(that), nil
}

func (that *Mark) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*that = EmptyCell
		return nil
	}

	mark := Mark(node.Value)
	if node.Kind != yaml.ScalarNode || !mark.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, node.Value)
	}

	*that = mark
	return nil
}

// Grid is a 3x3 board stored row-major: index 0 is the top-left cell, 8 the bottom-right.
type Grid [GridSize]Mark

// EmptyGrid returns a board without marks.
func EmptyGrid() Grid {
	return Grid{}
}

// With returns a copy of the grid with mark placed at cell.
func (that Grid) With(cell int, mark Mark) Grid {
	next := that
	next[cell] = mark
	return next
}

// UnmarshalJSON rejects boards that don't have exactly nine cells.
func (that *Grid) UnmarshalJSON(data []byte) error {
	var cells []Mark
	if err := json.Unmarshal(data, &cells); err != nil {
		return fmt.Errorf("failed to decode grid: %w", err)
	}

	if len(cells) != GridSize {
		return fmt.Errorf("%w: got %d", ErrInvalidGridSize, len(cells))
	}

	copy(that[:], cells)
	return nil
}

func (that *Grid) UnmarshalYAML(node *yaml.Node) error {
	var cells []Mark
	if err := node.Decode(&cells); err != nil {
		return fmt.Errorf("failed to decode grid: %w", err)
	}

	if len(cells) != GridSize {
		return fmt.Errorf("%w: got %d", ErrInvalidGridSize, len(cells))
	}

	copy(that[:], cells)
	return nil
}
