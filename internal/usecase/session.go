package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/entity"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/persist"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/timeline"
)

// History is the persisted shape of a game: every board so far plus the viewed step.
type History = timeline.Timeline[entity.Grid]

type HistoryOption = persist.Option[History]

func newHistory() History {
	return timeline.New(entity.EmptyGrid())
}

// GameSession wires a persisted timeline of grids to the game rules.
// Intents are applied one at a time; illegal ones are ignored.
type GameSession struct {
	id      string
	history *persist.Value[History]

	mu sync.Mutex

	subsMu  sync.Mutex
	subs    map[int]chan entity.Snapshot
	nextSub int
}

func NewGameSession(ctx context.Context, store storage.KeyValue, id, key string, opts ...HistoryOption) (*GameSession, error) {
	history, err := persist.New(ctx, store, key, newHistory, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}

	return &GameSession{
		id:      id,
		history: history,
		subs:    make(map[int]chan entity.Snapshot),
	}, nil
}

func (that *GameSession) ID() string {
	return that.id
}

func (that *GameSession) Key() string {
	return that.history.Key()
}

// LoadOutcome tells whether the history came from storage or started fresh.
func (that *GameSession) LoadOutcome() persist.Outcome {
	return that.history.Outcome()
}

// Move places the next mark on cell of the viewed board. Viewing a past step
// and moving discards the steps after it. Returns false when the move is illegal.
func (that *GameSession) Move(cell int) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.move(cell)
}

// MoveWith lets choose pick the cell from the viewed board. Finished games are
// left alone and choose is not called; a choose error is returned as is.
func (that *GameSession) MoveWith(choose func(grid entity.Grid) (int, error)) (bool, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	grid := that.history.Get().Current()
	if !tictactoe.Status(grid).IsInProgress() {
		return false, nil
	}

	cell, err := choose(grid)
	if err != nil {
		return false, err
	}

	return that.move(cell), nil
}

// move must be called with mu held.
func (that *GameSession) move(cell int) bool {
	next, err := tictactoe.Play(that.history.Get().Current(), cell)
	if err != nil {
		return false
	}

	that.commit(func(tl *History) { tl.Append(next) })
	return true
}

func (that *GameSession) Restart() {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.commit(func(tl *History) { tl.Restart(entity.EmptyGrid()) })
}

// JumpTo views an earlier or later step. Returns false when step is out of range.
// Jumping to the viewed step is accepted but changes nothing.
func (that *GameSession) JumpTo(step int) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	current := that.history.Get()
	if step == current.Cursor() {
		return true
	}

	tl := current.Clone()
	if err := tl.JumpTo(step); err != nil {
		return false
	}

	that.history.Set(tl)
	that.notify(tl)
	return true
}

// Rename moves the game to another storage slot without reloading it.
func (that *GameSession) Rename(key string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.history.SetKey(key); err != nil {
		return fmt.Errorf("failed to rename game: %w", err)
	}

	that.notify(that.history.Get())
	return nil
}

// commit must be called with mu held.
func (that *GameSession) commit(change func(tl *History)) {
	next := that.history.Update(func(prev History) History {
		tl := prev.Clone()
		change(&tl)
		return tl
	})

	that.notify(next)
}

func (that *GameSession) Grid() entity.Grid {
	return that.history.Get().Current()
}

func (that *GameSession) Status() entity.GameStatus {
	return tictactoe.Status(that.Grid())
}

func (that *GameSession) Snapshot() entity.Snapshot {
	return that.snapshot(that.history.Get())
}

func (that *GameSession) snapshot(tl History) entity.Snapshot {
	grid := tl.Current()
	status := tictactoe.Status(grid)

	return entity.Snapshot{
		GameID:     that.id,
		Key:        that.history.Key(),
		Grid:       grid,
		Status:     status,
		StatusText: tictactoe.StatusText(status),
		StepCount:  tl.StepCount(),
		Cursor:     tl.Cursor(),
		Steps:      steps(tl),
	}
}

func steps(tl History) []entity.Step {
	out := make([]entity.Step, tl.StepCount())
	for i := range out {
		label := "Go to game start"
		if i > 0 {
			label = "Go to move #" + strconv.Itoa(i)
		}

		out[i] = entity.Step{Index: i, Label: label, Current: i == tl.Cursor()}
	}

	return out
}

// Subscribe returns a channel receiving a snapshot after every accepted intent.
// A subscriber that falls behind only sees the latest snapshot.
func (that *GameSession) Subscribe() (<-chan entity.Snapshot, func()) {
	that.subsMu.Lock()
	defer that.subsMu.Unlock()

	id := that.nextSub
	that.nextSub++

	ch := make(chan entity.Snapshot, 1)
	that.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			that.subsMu.Lock()
			defer that.subsMu.Unlock()

			delete(that.subs, id)
			close(ch)
		})
	}
}

func (that *GameSession) notify(tl History) {
	snap := that.snapshot(tl)

	that.subsMu.Lock()
	defer that.subsMu.Unlock()

	for _, ch := range that.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}

func (that *GameSession) Flush(ctx context.Context) error {
	return that.history.Flush(ctx)
}

func (that *GameSession) Close() error {
	return that.history.Close()
}
