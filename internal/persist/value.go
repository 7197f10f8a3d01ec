// Package persist keeps an in-memory value mirrored to one slot of a key-value store.
//
// Storage is read once, when the value is created. Every change is encoded
// right away and handed to a background writer that only ever writes the
// latest text per key, so storage trails memory but converges on it. Storage
// is a mirror: write failures are logged and retried with a growing delay, they
// never roll back the in-memory value.
package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-timeline/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/codec"
	"github.com/rocketscienceinc/tictactoe-timeline/internal/repository/storage"
)

const (
	defaultWriteTimeout = 5 * time.Second
	defaultRetryDelay   = time.Second
	maxRetryDelay       = 30 * time.Second
)

var ErrClosed = errors.New("persistent value is closed")

type Option[T any] func(*Value[T])

// WithCodec overrides the default JSON codec.
func WithCodec[T any](c codec.Codec[T]) Option[T] {
	return func(v *Value[T]) {
		v.codec = c
	}
}

func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(v *Value[T]) {
		v.logger = logger
	}
}

// WithWriteTimeout bounds each storage call made by the writer.
func WithWriteTimeout[T any](timeout time.Duration) Option[T] {
	return func(v *Value[T]) {
		v.writeTimeout = timeout
	}
}

// WithRetryDelay sets the first wait before failed writes are retried. The wait doubles
// after each failed retry, up to 30s.
func WithRetryDelay[T any](delay time.Duration) Option[T] {
	return func(v *Value[T]) {
		v.retryDelay = delay
	}
}

// Static wraps a literal default.
func Static[T any](value T) func() T {
	return func() T { return value }
}

type pendingOp struct {
	remove bool
	text   string
}

type Value[T any] struct {
	store        storage.KeyValue
	codec        codec.Codec[T]
	logger       *slog.Logger
	writeTimeout time.Duration
	retryDelay   time.Duration

	mu      sync.Mutex
	key     string
	value   T
	outcome Outcome
	pending map[string]pendingOp

	wake      chan struct{}
	flush     chan chan error
	done      chan struct{}
	cancel    context.CancelFunc
	closeOnce sync.Once
	closeErr  error
}

// New loads key from store, falling back to initial when the entry is absent,
// unreadable or corrupt. A corrupt entry is deleted. Nothing is written until the first change.
func New[T any](ctx context.Context, store storage.KeyValue, key string, initial func() T, opts ...Option[T]) (*Value[T], error) {
	if key == "" {
		return nil, apperror.ErrEmptyKey
	}

	v := &Value[T]{
		store:        store,
		codec:        codec.JSON[T]{},
		logger:       slog.Default(),
		writeTimeout: defaultWriteTimeout,
		retryDelay:   defaultRetryDelay,

		key:     key,
		pending: make(map[string]pendingOp),

		wake:  make(chan struct{}, 1),
		flush: make(chan chan error),
		done:  make(chan struct{}),
	}

	for _, opt := range opts {
		opt(v)
	}

	v.logger = v.logger.With("component", "persist")
	v.value, v.outcome = v.load(ctx, initial)

	writerCtx, cancel := context.WithCancel(context.Background())
	v.cancel = cancel
	go v.run(writerCtx)

	return v, nil
}

func (that *Value[T]) load(ctx context.Context, initial func() T) (T, Outcome) {
	log := that.logger.With("method", "load", "key", that.key)

	text, err := that.store.Read(ctx, that.key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return initial(), FellBackToDefault(ReasonAbsent, nil)
	case err != nil:
		log.Error("failed to read stored value", "error", err)
		return initial(), FellBackToDefault(ReasonUnavailable, err)
	}

	value, err := that.codec.Decode(text)
	if err != nil {
		if delErr := that.store.Delete(ctx, that.key); delErr != nil {
			log.Error("failed to delete corrupt entry", "error", delErr)
		}
		return initial(), FellBackToDefault(ReasonCorrupt, err)
	}

	return value, Loaded()
}

// Get returns the in-memory value. It never touches storage.
// Values holding slices or maps must be cloned before they are mutated.
func (that *Value[T]) Get() T {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.value
}

func (that *Value[T]) Key() string {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.key
}

func (that *Value[T]) Outcome() Outcome {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.outcome
}

func (that *Value[T]) Set(next T) {
	that.Update(func(T) T { return next })
}

// Update replaces the value with fn(prev) and schedules a write under the current key.
func (that *Value[T]) Update(fn func(prev T) T) T {
	that.mu.Lock()
	that.value = fn(that.value)
	next := that.value
	that.scheduleWrite(that.key, next)
	that.mu.Unlock()

	that.signal()
	return next
}

// SetKey moves persistence to a new slot: the old entry is deleted and the
// current value is written under newKey. The value is not reloaded from newKey.
func (that *Value[T]) SetKey(newKey string) error {
	if newKey == "" {
		return apperror.ErrEmptyKey
	}

	that.mu.Lock()
	if newKey == that.key {
		that.mu.Unlock()
		return nil
	}

	that.pending[that.key] = pendingOp{remove: true}
	that.key = newKey
	that.scheduleWrite(newKey, that.value)
	that.mu.Unlock()

	that.signal()
	return nil
}

// scheduleWrite must be called with mu held.
func (that *Value[T]) scheduleWrite(key string, value T) {
	text, err := that.codec.Encode(value)
	if err != nil {
		that.logger.Error("failed to encode value, write skipped", "key", key, "error", err)
		return
	}

	that.pending[key] = pendingOp{text: text}
}

func (that *Value[T]) signal() {
	select {
	case that.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every change made before the call has been handed to storage.
// It returns the storage errors hit on the way; failed writes stay queued.
func (that *Value[T]) Flush(ctx context.Context) error {
	reply := make(chan error, 1)

	select {
	case that.flush <- reply:
	case <-that.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close writes what is still pending and stops the writer. It returns the
// storage errors of that last write; every later call returns the same.
func (that *Value[T]) Close() error {
	that.closeOnce.Do(func() {
		that.cancel()
	})
	<-that.done

	return that.closeErr
}

func (that *Value[T]) run(ctx context.Context) {
	defer close(that.done)

	var retry <-chan time.Time
	delay := that.retryDelay

	// schedule arms a retry after a failed drain and resets the backoff after a clean one.
	schedule := func(err error) {
		if err == nil {
			retry = nil
			delay = that.retryDelay
			return
		}

		retry = time.After(delay)
		delay = min(delay*2, maxRetryDelay)
	}

	for {
		select {
		case <-that.wake:
			schedule(that.drain(ctx))
		case <-retry:
			schedule(that.drain(ctx))
		case reply := <-that.flush:
			err := that.drain(ctx)
			schedule(err)
			reply <- err
		case <-ctx.Done():
			that.closeErr = that.drain(context.WithoutCancel(ctx))
			return
		}
	}
}

func (that *Value[T]) drain(ctx context.Context) error {
	log := that.logger.With("method", "drain")

	that.mu.Lock()
	ops := that.pending
	that.pending = make(map[string]pendingOp)
	that.mu.Unlock()

	var errs []error
	for key, op := range ops {
		if err := that.apply(ctx, key, op); err != nil {
			log.Error("failed to sync value to storage", "key", key, "error", err)
			errs = append(errs, err)
			that.requeue(key, op)
		}
	}

	return errors.Join(errs...)
}

func (that *Value[T]) apply(ctx context.Context, key string, op pendingOp) error {
	ctx, cancel := context.WithTimeout(ctx, that.writeTimeout)
	defer cancel()

	if op.remove {
		if err := that.store.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %q: %w", key, err)
		}
		return nil
	}

	if err := that.store.Write(ctx, key, op.text); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}

	return nil
}

// requeue puts a failed op back unless a newer one for the same key arrived meanwhile.
func (that *Value[T]) requeue(key string, op pendingOp) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, newer := that.pending[key]; !newer {
		that.pending[key] = op
	}
}
