// Package timeline implements a branch-truncating history with a movable cursor.
//
// A timeline always holds at least one entry. Appending while the cursor is
// behind the tail first discards every entry after the cursor, so a future
// that has been stepped away from is never replayed.
package timeline

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
)

var ErrCorrupt = errors.New("corrupt timeline")

type Timeline[T any] struct {
	entries []T
	cursor  int
}

// New returns a timeline holding only seed.
func New[T any](seed T) Timeline[T] {
	return Timeline[T]{entries: []T{seed}}
}

// Append commits value after the cursor, truncating any entries past it.
func (that *Timeline[T]) Append(value T) {
	if that.cursor < len(that.entries)-1 {
		that.entries = that.entries[:that.cursor+1 : that.cursor+1]
	}

	that.entries = append(that.entries, value)
	that.cursor = len(that.entries) - 1
}

// JumpTo moves the cursor without touching entries. Out of range steps are rejected, not clamped.
func (that *Timeline[T]) JumpTo(step int) error {
	if step < 0 || step >= len(that.entries) {
		return fmt.Errorf("%w: %d not in [0, %d)", apperror.ErrStepOutOfRange, step, len(that.entries))
	}

	that.cursor = step
	return nil
}

// Restart drops all history.
func (that *Timeline[T]) Restart(seed T) {
	that.entries = []T{seed}
	that.cursor = 0
}

func (that Timeline[T]) Current() T {
	return that.entries[that.cursor]
}

func (that Timeline[T]) Cursor() int {
	return that.cursor
}

func (that Timeline[T]) StepCount() int {
	return len(that.entries)
}

// Entries returns a copy of the history in chronological order.
func (that Timeline[T]) Entries() []T {
	out := make([]T, len(that.entries))
	copy(out, that.entries)
	return out
}

// Clone returns a timeline that shares no backing array with the receiver.
func (that Timeline[T]) Clone() Timeline[T] {
	return Timeline[T]{entries: that.Entries(), cursor: that.cursor}
}

type wire[T any] struct {
	Entries []T `json:"entries" yaml:"entries"`
	Cursor  int `json:"cursor" yaml:"cursor"`
}

func (that wire[T]) validate() error {
	if len(that.Entries) == 0 {
		return fmt.Errorf("%w: no entries", ErrCorrupt)
	}

	if that.Cursor < 0 || that.Cursor >= len(that.Entries) {
		return fmt.Errorf("%w: cursor %d outside %d entries", ErrCorrupt, that.Cursor, len(that.Entries))
	}

	return nil
}

func (that Timeline[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(wire[T]{Entries: that.entries, Cursor: that.cursor})
}

// UnmarshalJSON refuses payloads that would break the cursor invariants.
func (that *Timeline[T]) UnmarshalJSON(data []byte) error {
	var w wire[T]
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("failed to decode timeline: %w", err)
	}

	if err := w.validate(); err != nil {
		return err
	}

	that.entries, that.cursor = w.Entries, w.Cursor
	return nil
}

func (that Timeline[T]) MarshalYAML() (any, error) {
	return wire[T]{Entries: that.entries, Cursor: that.cursor}, nil
}

func (that *Timeline[T]) UnmarshalYAML(node *yaml.Node) error {
	var w wire[T]
	if err := node.Decode(&w); err != nil {
		return fmt.Errorf("failed to decode timeline: %w", err)
	}

	if err := w.validate(); err != nil {
		return err
	}

	that.entries, that.cursor = w.Entries, w.Cursor
	return nil
}
