package stoplight

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"time"
)

// Interceptor is called by a persistence host synchronously before an
// instance is written. A non-nil error must abort the write.
type Interceptor interface {
	BeforeSave(ctx context.Context, instance any, updatedFields []string) error
}

// Host is the persistence layer an Anonymizer attaches to.
type Host interface {
	// Ready reports whether the host has finished initializing its models.
	Ready() bool

	// Models returns one value per known record type, e.g. (*User)(nil).
	Models() []any

	// RegisterBeforeSave attaches i to saves of the given record types.
	RegisterBeforeSave(i Interceptor, models ...any) error
}

// Anonymizer applies declared mappings to record instances before they are
// saved. It implements Interceptor.
//
// An Anonymizer is safe for concurrent use. Declarations may be added at
// any time; each Anonymize call reads the mapping current at its start.
type Anonymizer struct {
	sampler    Sampler
	pkOverride map[reflect.Type]string

	mu       sync.RWMutex
	mappings map[reflect.Type]Mapping
	types    map[reflect.Type]*typeInfo

	hookMu sync.Mutex
	hooked map[any]map[reflect.Type]bool // host -> types registered with it
}

// Option configures an Anonymizer.
type Option func(*Anonymizer)

// WithSampler sets the Gaussian source used by StrategyVary.
func WithSampler(s Sampler) Option {
	return func(a *Anonymizer) {
		if s != nil {
			a.sampler = s
		}
	}
}

// WithPrimaryKey names the primary-key field of model's type, overriding
// tag and interface detection. model is any value of the type, e.g. (*User)(nil).
func WithPrimaryKey(model any, field string) Option {
	return func(a *Anonymizer) {
		if t, ok := modelType(model); ok {
			a.pkOverride[t] = field
		}
	}
}

// New creates an Anonymizer with no declarations.
func New(opts ...Option) *Anonymizer {
	a := &Anonymizer{
		sampler:    DefaultSampler(),
		pkOverride: make(map[reflect.Type]string),
		mappings:   make(map[reflect.Type]Mapping),
		types:      make(map[reflect.Type]*typeInfo),
		hooked:     make(map[any]map[reflect.Type]bool),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Declare attaches rules to record type T, replacing any earlier mapping.
func Declare[T any](a *Anonymizer, rules ...Rule) {
	a.DeclareType(reflect.TypeFor[T](), rules)
}

// DeclareType attaches m to record type t, replacing any earlier mapping.
// Pointer types are dereferenced to their struct type.
func (a *Anonymizer) DeclareType(t reflect.Type, m Mapping) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	a.mu.Lock()
	a.mappings[t] = m.clone()
	a.mu.Unlock()

	emitDeclared(context.Background(), t.Name(), len(m))
}

// Mapping returns the mapping that applies to model's type and whether one exists.
func (a *Anonymizer) Mapping(model any) (Mapping, bool) {
	t, ok := modelType(model)
	if !ok {
		return nil, false
	}
	m, ok := a.mappingFor(t)
	if !ok {
		return nil, false
	}
	return m.clone(), true
}

// mappingFor returns the explicit mapping for t, or the one provided by
// the Anonymous interface.
func (a *Anonymizer) mappingFor(t reflect.Type) (Mapping, bool) {
	a.mu.RLock()
	m, ok := a.mappings[t]
	a.mu.RUnlock()
	if ok {
		return m, true
	}

	if reflect.PointerTo(t).Implements(reflect.TypeFor[Anonymous]()) {
		return reflect.New(t).Interface().(Anonymous).Anonymities(), true
	}
	return nil, false
}

// typeInfo returns the cached attribute table for t, building it on first use.
func (a *Anonymizer) typeInfo(t reflect.Type) *typeInfo {
	// Fast path: read-lock cache check
	a.mu.RLock()
	if ti, ok := a.types[t]; ok {
		a.mu.RUnlock()
		return ti
	}
	a.mu.RUnlock()

	// Slow path: build and cache with write-lock
	a.mu.Lock()
	defer a.mu.Unlock()

	if ti, ok := a.types[t]; ok {
		return ti
	}

	ti := buildTypeInfo(t, a.pkOverride[t])
	a.types[t] = ti
	return ti
}

// BeforeSave implements Interceptor by calling Anonymize.
func (a *Anonymizer) BeforeSave(ctx context.Context, instance any, updatedFields []string) error {
	return a.Anonymize(ctx, instance, updatedFields)
}

// Anonymize rewrites the declared fields of instance in place.
//
// instance must be a non-nil pointer to a struct. Rules run in declared
// order; the first failing rule stops processing and its error is returned
// as a *RuleError. Fields rewritten by earlier rules keep their new values,
// so callers must not persist or reuse an instance after a failure.
//
// updatedFields lists the fields changed by the surrounding save. Every
// declared rule is applied regardless of its contents.
func (a *Anonymizer) Anonymize(ctx context.Context, instance any, updatedFields []string) error {
	rv := reflect.ValueOf(instance)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a non-nil pointer to a struct", ErrInvalidRecord, instance)
	}

	t := rv.Elem().Type()
	mapping, ok := a.mappingFor(t)
	if !ok || len(mapping) == 0 {
		return nil
	}
	ti := a.typeInfo(t)

	start := time.Now()
	emitAnonymizeStart(ctx, ti.name, len(mapping), len(updatedFields))

	applied := 0
	var failed string
	var retErr error
	defer func() {
		emitAnonymizeComplete(ctx, ti.name, time.Since(start), applied, failed, retErr)
	}()

	for _, r := range mapping {
		if err := a.applyRule(ti, rv.Elem(), r); err != nil {
			failed, retErr = r.Field, err
			return retErr
		}
		applied++
	}
	return nil
}

// applyRule validates r against the record type, then reads, transforms
// and writes back the field.
func (a *Anonymizer) applyRule(ti *typeInfo, rec reflect.Value, r Rule) error {
	f, err := checkRule(ti, r)
	if err != nil {
		return err
	}

	field := rec.FieldByIndex(f.index)
	if !field.CanSet() {
		return newRuleError(ErrMissingAttribute, ti.name, r, nil)
	}

	out, err := apply(a.sampler, r.Strategy, field.Interface(), r.Args)
	if err != nil {
		return newRuleError(nil, ti.name, r, err)
	}

	nv := reflect.ValueOf(out)
	switch {
	case !nv.IsValid():
		nv = reflect.Zero(field.Type())
	case nv.Type().AssignableTo(field.Type()):
	case nv.Type().ConvertibleTo(field.Type()):
		nv = nv.Convert(field.Type())
	default:
		return newRuleError(ErrTypeKind, ti.name, r,
			fmt.Errorf("cannot assign %s to field of type %s", nv.Type(), field.Type()))
	}
	field.Set(nv)
	return nil
}

// checkRule validates the shape of r against the record type:
// a field name and a known strategy, a resolvable attribute, and not the
// primary key.
func checkRule(ti *typeInfo, r Rule) (fieldInfo, error) {
	if r.Field == "" {
		return fieldInfo{}, newRuleError(ErrInvalidRule, ti.name, r, errors.New("empty field identifier"))
	}
	if !r.Strategy.IsValid() {
		return fieldInfo{}, newRuleError(ErrInvalidRule, ti.name, r, fmt.Errorf("%s is not a valid strategy", r.Strategy))
	}
	f, ok := ti.lookup(r.Field)
	if !ok {
		return fieldInfo{}, newRuleError(ErrMissingAttribute, ti.name, r,
			fmt.Errorf("%s does not have a writable attribute %s", ti.name, r.Field))
	}
	if ti.pk != "" && f.name == ti.pk {
		return fieldInfo{}, newRuleError(ErrForbiddenTarget, ti.name, r,
			fmt.Errorf("primary key %s cannot be anonymized", f.name))
	}
	return f, nil
}

// Validate checks the shape of every rule declared for the given models,
// or for every declared type when none are given. Types that only carry a
// mapping through the Anonymous interface are checked when passed as
// models, e.g. a.Validate(host.Models()...); the no-argument form cannot
// discover them. It does not inspect values, so transform errors still
// surface at save time.
//
// Anonymize performs the same checks; Validate lets misconfiguration fail
// at startup.
func (a *Anonymizer) Validate(models ...any) error {
	var types []reflect.Type
	if len(models) == 0 {
		a.mu.RLock()
		for t := range a.mappings {
			types = append(types, t)
		}
		a.mu.RUnlock()
	} else {
		for _, m := range models {
			t, ok := modelType(m)
			if !ok {
				return fmt.Errorf("%w: %T", ErrInvalidRecord, m)
			}
			types = append(types, t)
		}
	}

	for _, t := range types {
		mapping, ok := a.mappingFor(t)
		if !ok {
			continue
		}
		ti := a.typeInfo(t)
		for _, r := range mapping {
			if _, err := checkRule(ti, r); err != nil {
				return err
			}
		}
	}
	return nil
}

// Init registers a as the before-save interceptor with host.
//
// When models are given, every one of them that has a mapping is registered.
// Otherwise the host's own models are discovered, which requires the host
// to be ready; ErrNotReady is returned if it is not. Types without a mapping
// are skipped, as are types already registered with the same host by an
// earlier Init. Hosts whose dynamic type is not comparable are not tracked.
func (a *Anonymizer) Init(ctx context.Context, host Host, models ...any) error {
	if len(models) == 0 {
		if !host.Ready() {
			return fmt.Errorf("%w: initialize the host before registering anonymizations", ErrNotReady)
		}
		models = host.Models()
	}

	a.hookMu.Lock()
	defer a.hookMu.Unlock()

	tracked := host != nil && reflect.TypeOf(host).Comparable()
	var seen map[reflect.Type]bool
	if tracked {
		seen = a.hooked[host]
	}

	var targets []any
	var types []reflect.Type
	var counts []int
	var names []string
	for _, m := range models {
		t, ok := modelType(m)
		if !ok {
			return fmt.Errorf("%w: %T", ErrInvalidRecord, m)
		}
		mapping, ok := a.mappingFor(t)
		if !ok || seen[t] || slices.Contains(types, t) {
			continue
		}
		targets = append(targets, m)
		types = append(types, t)
		counts = append(counts, len(mapping))
		names = append(names, t.Name())
	}
	if len(targets) == 0 {
		return nil
	}

	if err := host.RegisterBeforeSave(a, targets...); err != nil {
		return fmt.Errorf("register hook: %w", err)
	}
	if tracked {
		if seen == nil {
			seen = make(map[reflect.Type]bool)
			a.hooked[host] = seen
		}
		for _, t := range types {
			seen[t] = true
		}
	}
	for i, name := range names {
		emitHookRegistered(ctx, name, counts[i])
	}
	return nil
}

// modelType returns the struct type of model, dereferencing pointers.
// model may also be a reflect.Type.
func modelType(model any) (reflect.Type, bool) {
	if model == nil {
		return nil, false
	}
	t, ok := model.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(model)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t, t.Kind() == reflect.Struct
}
