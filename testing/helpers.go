// Package testing provides test utilities for stoplight.
package testing

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/stoplight"
)

// FixedSampler always returns the same standard normal sample, so Vary
// moves every value by exactly that many standard deviations.
type FixedSampler float64

// NormFloat64 implements stoplight.Sampler.
func (f FixedSampler) NormFloat64() float64 { return float64(f) }

// Person is a record type with no struct tags.
type Person struct {
	ID        int
	Name      string
	Age       int
	SSN       int
	Phone     string
	Address   string
	LastVisit time.Time
}

// Original field values returned by NewPerson.
const (
	PersonName    = "Mango Joe"
	PersonAge     = 20
	PersonSSN     = 123456789
	PersonPhone   = "012 345 6789"
	PersonAddress = "1000 Olin Way, Needham MA 02492"
)

// PersonLastVisit is the original LastVisit returned by NewPerson.
var PersonLastVisit = time.Date(2021, 12, 9, 8, 4, 0, 0, time.UTC)

// NewPerson returns a Person populated with the original field values.
func NewPerson() *Person {
	return &Person{
		ID:        1,
		Name:      PersonName,
		Age:       PersonAge,
		SSN:       PersonSSN,
		Phone:     PersonPhone,
		Address:   PersonAddress,
		LastVisit: PersonLastVisit,
	}
}

// PersonMapping covers every strategy across five fields of Person.
// ID and SSN are left alone.
func PersonMapping() stoplight.Mapping {
	return stoplight.Mapping{
		stoplight.VaryRule("Age", 15),
		stoplight.PartialSuppressRule("Phone", "*** *** XXXX"),
		stoplight.SuppressRule("Name"),
		stoplight.MockRule("Address", stoplight.MockAddress),
		stoplight.MockRule("LastVisit", stoplight.MockDatetime),
	}
}

// TaggedPerson declares the same mapping as PersonMapping with struct tags.
type TaggedPerson struct {
	ID        int       `bun:"id,pk"`
	Name      string    `anonymize:"suppress"`
	Age       int       `anonymize:"vary,15"`
	SSN       int       `bun:"ssn"`
	Phone     string    `anonymize:"partial_suppress,*** *** XXXX"`
	Address   string    `anonymize:"mock,address"`
	LastVisit time.Time `anonymize:"mock,datetime"`
}

// NewAnonymizer returns an Anonymizer with a FixedSampler of 1 and the
// Person mapping declared.
func NewAnonymizer(tb testing.TB) *stoplight.Anonymizer {
	tb.Helper()
	a := stoplight.New(stoplight.WithSampler(FixedSampler(1)))
	stoplight.Declare[Person](a, PersonMapping()...)
	return a
}

// Host is an in-memory stoplight.Host. Save runs the registered
// interceptors and records the instances that passed.
type Host struct {
	mu           sync.Mutex
	ready        bool
	models       []any
	interceptors map[reflect.Type][]stoplight.Interceptor
	saved        []any
}

var _ stoplight.Host = (*Host)(nil)

// NewHost returns a Host that knows models. It is not ready until Start.
func NewHost(models ...any) *Host {
	return &Host{
		models:       models,
		interceptors: make(map[reflect.Type][]stoplight.Interceptor),
	}
}

// Start marks the host ready.
func (h *Host) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ready = true
}

// Ready implements stoplight.Host.
func (h *Host) Ready() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ready
}

// Models implements stoplight.Host.
func (h *Host) Models() []any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]any(nil), h.models...)
}

// RegisterBeforeSave implements stoplight.Host.
func (h *Host) RegisterBeforeSave(i stoplight.Interceptor, models ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, m := range models {
		t := reflect.TypeOf(m)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		h.interceptors[t] = append(h.interceptors[t], i)
	}
	return nil
}

// Registered reports whether any interceptor is attached to model's type.
func (h *Host) Registered(model any) bool {
	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.interceptors[t]) > 0
}

// Save runs the interceptors for instance and records it if they succeed.
func (h *Host) Save(ctx context.Context, instance any, updatedFields ...string) error {
	t := reflect.TypeOf(instance).Elem()

	h.mu.Lock()
	interceptors := h.interceptors[t]
	h.mu.Unlock()

	for _, i := range interceptors {
		if err := i.BeforeSave(ctx, instance, updatedFields); err != nil {
			return err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.saved = append(h.saved, instance)
	return nil
}

// Saved returns the instances that were saved.
func (h *Host) Saved() []any {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]any(nil), h.saved...)
}
