// Package bunhost runs stoplight interceptors in front of bun writes.
//
//	store := bunhost.New(db)
//	if err := store.Open(ctx, (*Person)(nil)); err != nil { ... }
//
//	a := stoplight.New()
//	stoplight.Declare[Person](a, stoplight.SuppressRule("Name"))
//	if err := a.Init(ctx, store); err != nil { ... }
//
//	err := store.Insert(ctx, &person) // person.Name is "<CONFIDENTIAL>" in the row
//
// Writes that bypass Store (db.NewInsert directly) are not intercepted.
package bunhost

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/uptrace/bun"
	"github.com/zoobzio/stoplight"
)

// Store wraps a bun database and implements stoplight.Host.
// Registered interceptors run synchronously before every Insert and Update;
// an interceptor error aborts the write before any SQL is issued.
type Store struct {
	db *bun.DB

	mu           sync.RWMutex
	ready        bool
	models       []any
	interceptors map[reflect.Type][]stoplight.Interceptor
}

var _ stoplight.Host = (*Store)(nil)

// New returns a Store for db. Call Open before discovering models.
func New(db *bun.DB) *Store {
	return &Store{
		db:           db,
		interceptors: make(map[reflect.Type][]stoplight.Interceptor),
	}
}

// DB returns the underlying bun database.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Open checks the connection and registers models with bun.
// The Store is ready once Open succeeds.
func (s *Store) Open(ctx context.Context, models ...any) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if len(models) > 0 {
		s.db.RegisterModel(models...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.models = append(s.models, models...)
	s.ready = true
	return nil
}

// Ready reports whether Open has succeeded.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Models returns the models passed to Open.
func (s *Store) Models() []any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]any(nil), s.models...)
}

// RegisterBeforeSave attaches i to writes of the given model types.
func (s *Store) RegisterBeforeSave(i stoplight.Interceptor, models ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range models {
		t, err := structType(m)
		if err != nil {
			return err
		}
		s.interceptors[t] = append(s.interceptors[t], i)
	}
	return nil
}

// Insert runs the interceptors for model, then inserts it.
func (s *Store) Insert(ctx context.Context, model any) error {
	return s.insert(ctx, s.db, model)
}

// Update runs the interceptors for model, then updates its row by primary
// key. When columns are given only those are written, and they are passed
// to the interceptors as the updated fields.
func (s *Store) Update(ctx context.Context, model any, columns ...string) error {
	return s.update(ctx, s.db, model, columns)
}

// RunInTx runs fn in a transaction. If fn or any interceptor returns an
// error the transaction is rolled back.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context, tx *Tx) error) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, &Tx{store: s, tx: tx})
	})
}

// Tx is a transaction whose writes are intercepted like the Store's.
type Tx struct {
	store *Store
	tx    bun.Tx
}

// Insert runs the interceptors for model, then inserts it in the transaction.
func (t *Tx) Insert(ctx context.Context, model any) error {
	return t.store.insert(ctx, &t.tx, model)
}

// Update runs the interceptors for model, then updates it in the transaction.
func (t *Tx) Update(ctx context.Context, model any, columns ...string) error {
	return t.store.update(ctx, &t.tx, model, columns)
}

func (s *Store) insert(ctx context.Context, db bun.IDB, model any) error {
	if err := s.beforeSave(ctx, model, nil); err != nil {
		return err
	}
	if _, err := db.NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

func (s *Store) update(ctx context.Context, db bun.IDB, model any, columns []string) error {
	if err := s.beforeSave(ctx, model, columns); err != nil {
		return err
	}
	q := db.NewUpdate().Model(model).WherePK()
	if len(columns) > 0 {
		q = q.Column(columns...)
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	return nil
}

// beforeSave runs every interceptor registered for model's type in
// registration order, stopping at the first error.
func (s *Store) beforeSave(ctx context.Context, model any, updated []string) error {
	rv := reflect.ValueOf(model)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a non-nil pointer to a struct", stoplight.ErrInvalidRecord, model)
	}

	s.mu.RLock()
	interceptors := s.interceptors[rv.Elem().Type()]
	s.mu.RUnlock()

	for _, i := range interceptors {
		if err := i.BeforeSave(ctx, model, updated); err != nil {
			return fmt.Errorf("before save: %w", err)
		}
	}
	return nil
}

func structType(model any) (reflect.Type, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", stoplight.ErrInvalidRecord)
	}
	t, ok := model.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(model)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", stoplight.ErrInvalidRecord, t)
	}
	return t, nil
}
