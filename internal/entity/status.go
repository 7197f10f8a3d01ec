package entity

import (
	"encoding/json"
	"fmt"
)

// StatusKind tells which variant a GameStatus holds.
type StatusKind int

const (
	StatusInProgress StatusKind = iota
	StatusWon
	StatusDraw
)

func (that StatusKind) String() string {
	switch that {
	case StatusInProgress:
		return "in_progress"
	case StatusWon:
		return "won"
	case StatusDraw:
		return "draw"
	default:
		return fmt.Sprintf("unknown(%d)", int(that))
	}
}

// GameStatus is derived from a grid and never stored.
// An in-progress status carries the next mark, a won status carries the winner,
// a draw carries nothing.
type GameStatus struct {
	kind StatusKind
	mark Mark
}

func InProgress(next Mark) GameStatus {
	return GameStatus{kind: StatusInProgress, mark: next}
}

func Won(winner Mark) GameStatus {
	return GameStatus{kind: StatusWon, mark: winner}
}

func Draw() GameStatus {
	return GameStatus{kind: StatusDraw}
}

func (that GameStatus) Kind() StatusKind {
	return that.kind
}

func (that GameStatus) IsInProgress() bool {
	return that.kind == StatusInProgress
}

// NextMark returns the mark to play, only set while the game is in progress.
func (that GameStatus) NextMark() (Mark, bool) {
	if that.kind != StatusInProgress {
		return EmptyCell, false
	}
	return that.mark, true
}

// Winner returns the winning mark, only set when the game is won.
func (that GameStatus) Winner() (Mark, bool) {
	if that.kind != StatusWon {
		return EmptyCell, false
	}
	return that.mark, true
}

type statusJSON struct {
	State  string `json:"state"`
	Next   Mark   `json:"next,omitempty"`
	Winner Mark   `json:"winner,omitempty"`
}

func (that GameStatus) MarshalJSON() ([]byte, error) {
	out := statusJSON{State: that.kind.String()}

	switch that.kind {
	case StatusInProgress:
		out.Next = that.mark
	case StatusWon:
		out.Winner = that.mark
	case StatusDraw:
	}

	return json.Marshal(out)
}
