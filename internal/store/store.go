// Package store implements the generic record store: identity-assigning
// CRUD over a named collection of entities persisted as one JSON document.
//
// The collection is read from storage on every operation and rewritten
// whole on every mutation. The last assigned id is seeded once, in New,
// from the maximum id found in storage, and is then advanced in memory.
//
// A Store assumes it is the only writer of its collection. Operations are
// not serialized against each other: two concurrent mutations can read the
// same snapshot and the second write silently discards the first. Two
// Store instances over the same document keep independent counters and
// can hand out the same id. Run a single instance per document.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/records-api/internal/metrics"
	"github.com/aanand-mishra/records-api/internal/storage"
)

// Entity is implemented by every stored type. WithID returns a copy
// carrying the given id.
type Entity[T any] interface {
	EntityID() int
	WithID(id int) T
}

// Patch is a partial update merged onto a stored entity.
type Patch[T any] interface {
	Apply(*T)
}

// Rules parameterize a Store for one entity shape.
type Rules[T any] struct {
	// Name identifies the collection in storage, logs and metrics.
	Name string

	// KeyField names the uniqueness key in conflict messages.
	KeyField string

	// Key returns the uniqueness key of an entity. Nil disables the check.
	Key func(T) string

	// Normalize fills defaults before validation. Optional.
	Normalize func(T) T
}

// Store is a file-backed collection with sequential ids.
type Store[T Entity[T]] struct {
	storage  storage.Storage
	rules    Rules[T]
	validate *validator.Validate
	log      *slog.Logger
	metrics  *metrics.Metrics

	lastID atomic.Int64
}

// Option configures a Store.
type Option func(*options)

type options struct {
	log     *slog.Logger
	metrics *metrics.Metrics
}

// WithLogger sets the logger used for failed operations.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records every operation on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// New binds a Store to st and seeds the id counter from the largest id
// currently persisted (0 for an empty or absent collection).
func New[T Entity[T]](ctx context.Context, st storage.Storage, rules Rules[T], opts ...Option) (*Store[T], error) {
	o := options{log: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store[T]{
		storage:  st,
		rules:    rules,
		validate: validator.New(),
		log:      o.log.With(slog.String("collection", rules.Name)),
		metrics:  o.metrics,
	}

	items, err := s.load(ctx)
	if err != nil {
		s.finish("init", err)
		return nil, err
	}
	var maxID int
	for _, it := range items {
		if id := it.EntityID(); id > maxID {
			maxID = id
		}
	}
	s.lastID.Store(int64(maxID))
	return s, nil
}

// LastID returns the most recently assigned id.
func (s *Store[T]) LastID() int { return int(s.lastID.Load()) }

// List returns the whole collection in insertion order. A collection that
// was never written is empty, not an error; a document that exists but is
// empty or unparsable is ErrStorage.
func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	items, err := s.load(ctx)
	s.finish("list", err)
	return items, err
}

// GetByID returns the entity with the given id. The boolean is false when
// no such entity exists; err is only ever a storage failure.
func (s *Store[T]) GetByID(ctx context.Context, id int) (T, bool, error) {
	var zero T
	items, err := s.load(ctx)
	s.finish("get", err)
	if err != nil {
		return zero, false, err
	}
	if i := indexOf(items, id); i >= 0 {
		return items[i], true, nil
	}
	return zero, false, nil
}

// Add validates candidate, enforces the uniqueness rule, assigns the next
// id and persists the collection. Any id set on candidate is ignored.
func (s *Store[T]) Add(ctx context.Context, candidate T) (T, error) {
	stored, err := s.add(ctx, candidate)
	s.finish("add", err)
	return stored, err
}

func (s *Store[T]) add(ctx context.Context, candidate T) (T, error) {
	var zero T
	candidate = s.normalize(candidate)
	if err := s.check(candidate); err != nil {
		return zero, err
	}

	items, err := s.load(ctx)
	if err != nil {
		return zero, err
	}
	if err := s.unique(items, candidate, -1); err != nil {
		return zero, err
	}

	id := s.lastID.Add(1)
	stored := candidate.WithID(int(id))
	items = append(items, stored)

	if err := s.save(ctx, items); err != nil {
		// Release the id unless another add already moved past it.
		s.lastID.CompareAndSwap(id, id-1)
		return zero, err
	}
	return stored, nil
}

// Update shallow-merges patch onto the entity with the given id and
// persists it. A missing id fails with ErrNotFound. The merged entity is
// validated and checked against the uniqueness rule like a new one.
func (s *Store[T]) Update(ctx context.Context, id int, patch Patch[T]) (T, error) {
	updated, err := s.modify(ctx, id, func(e *T) error {
		patch.Apply(e)
		return nil
	})
	s.finish("update", err)
	return updated, err
}

// Modify loads the entity with the given id, hands it to fn and persists
// the result. ErrNotFound when absent; an error from fn aborts the write
// and is returned as is.
func (s *Store[T]) Modify(ctx context.Context, id int, fn func(*T) error) (T, error) {
	updated, err := s.modify(ctx, id, fn)
	s.finish("modify", err)
	return updated, err
}

func (s *Store[T]) modify(ctx context.Context, id int, fn func(*T) error) (T, error) {
	var zero T
	items, err := s.load(ctx)
	if err != nil {
		return zero, err
	}

	i := indexOf(items, id)
	if i < 0 {
		return zero, fmt.Errorf("%w: %s with id %d does not exist", ErrNotFound, s.rules.Name, id)
	}

	cur := items[i]
	if err := fn(&cur); err != nil {
		return zero, err
	}
	cur = s.normalize(cur.WithID(id))
	if err := s.check(cur); err != nil {
		return zero, err
	}
	if err := s.unique(items, cur, i); err != nil {
		return zero, err
	}

	items[i] = cur
	if err := s.save(ctx, items); err != nil {
		return zero, err
	}
	return cur, nil
}

// Delete removes the entity with the given id. Deleting an id that does
// not exist is not an error; the collection is rewritten either way.
func (s *Store[T]) Delete(ctx context.Context, id int) error {
	err := s.delete(ctx, id)
	s.finish("delete", err)
	return err
}

func (s *Store[T]) delete(ctx context.Context, id int) error {
	items, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.EntityID() != id {
			kept = append(kept, it)
		}
	}
	return s.save(ctx, kept)
}

func (s *Store[T]) normalize(e T) T {
	if s.rules.Normalize != nil {
		return s.rules.Normalize(e)
	}
	return e
}

func (s *Store[T]) check(e T) error {
	err := s.validate.Struct(e)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		return &ValidationError{Collection: s.rules.Name, Fields: fields}
	}
	return fmt.Errorf("%w: %s: %w", ErrValidation, s.rules.Name, err)
}

// unique reports a conflict when another entity (any index but skip)
// shares e's key.
func (s *Store[T]) unique(items []T, e T, skip int) error {
	if s.rules.Key == nil {
		return nil
	}
	key := s.rules.Key(e)
	for i, it := range items {
		if i != skip && s.rules.Key(it) == key {
			return fmt.Errorf("%w: %s with %s %q already exists",
				ErrConflict, s.rules.Name, s.rules.KeyField, key)
		}
	}
	return nil
}

func (s *Store[T]) load(ctx context.Context) ([]T, error) {
	doc, err := s.storage.Read(ctx, s.rules.Name)
	if errors.Is(err, storage.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrStorage, s.rules.Name, err)
	}
	var items []T
	if err := json.Unmarshal(doc, &items); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %w", ErrStorage, s.rules.Name, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (s *Store[T]) save(ctx context.Context, items []T) error {
	doc, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrStorage, s.rules.Name, err)
	}
	if err := s.storage.Write(ctx, s.rules.Name, doc); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrStorage, s.rules.Name, err)
	}
	return nil
}

func (s *Store[T]) finish(op string, err error) {
	s.metrics.ObserveStoreOp(s.rules.Name, op, outcome(err))
	if err == nil {
		return
	}
	level := slog.LevelDebug
	if errors.Is(err, ErrStorage) {
		level = slog.LevelError
	}
	s.log.Log(context.Background(), level, "store operation failed",
		slog.String("op", op),
		slog.String("error", err.Error()))
}

func indexOf[T Entity[T]](items []T, id int) int {
	for i, it := range items {
		if it.EntityID() == id {
			return i
		}
	}
	return -1
}
