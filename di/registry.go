package di

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/svcreg/logger"
	"github.com/kbukum/svcreg/util"
)

const instrumentationName = "github.com/kbukum/svcreg/di"

// Mode tells how a registered service is produced.
type Mode int

const (
	ModeValue   Mode = iota // Stored as given
	ModeFactory             // Built by a factory on first resolve
)

func (m Mode) String() string {
	switch m {
	case ModeValue:
		return "value"
	case ModeFactory:
		return "factory"
	default:
		return "unknown"
	}
}

// FactoryFunc builds a service. It receives the registry so it can resolve
// its own dependencies.
type FactoryFunc func(r *Registry) any

// RegistrationInfo describes a registered service for introspection.
type RegistrationInfo struct {
	Key         string
	Mode        Mode
	Initialized bool
	Tags        []string
}

type descriptor struct {
	mode    Mode
	factory FactoryFunc

	mu          sync.Mutex
	initialized atomic.Bool
	instance    any
}

// Registry holds named services, their cached instances and the tag index.
// Every Registry is independent; there is no package-level instance.
type Registry struct {
	id     string
	log    *logger.Logger
	tracer trace.Tracer
	meter  metric.Meter
	stats  *metrics

	mu          sync.RWMutex
	descriptors map[string]*descriptor
	order       []string
	tags        map[string][]string
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registry debug output.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithTracer sets the tracer used by ResolveContext.
func WithTracer(t trace.Tracer) Option {
	return func(r *Registry) { r.tracer = t }
}

// WithMeter sets the meter the registry records resolution and factory
// metrics on.
func WithMeter(m metric.Meter) Option {
	return func(r *Registry) { r.meter = m }
}

// RegisterOption configures a single registration.
type RegisterOption func(*registerOptions)

type registerOptions struct {
	tags []string
}

// WithTags associates the registered key with each of tags.
func WithTags(tags ...string) RegisterOption {
	return func(o *registerOptions) { o.tags = append(o.tags, tags...) }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		id:          uuid.NewString(),
		descriptors: make(map[string]*descriptor),
		tags:        make(map[string][]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Get("di")
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer(instrumentationName)
	}
	if r.meter == nil {
		r.meter = otel.Meter(instrumentationName)
	}
	r.log = r.log.WithFields(logger.Fields(logger.FieldRegistryID, r.id))
	r.stats = newMetrics(r.meter, r.log)
	return r
}

// ID returns the random identifier of this registry, as seen in logs and spans.
func (r *Registry) ID() string { return r.id }

// Set registers value under key, replacing any previous registration.
func (r *Registry) Set(key string, value any, opts ...RegisterOption) *Registry {
	d := &descriptor{mode: ModeValue, instance: value}
	d.initialized.Store(true)
	r.register(key, d, opts)
	return r
}

// SetAll registers every entry of values as a value, in ascending key order.
func (r *Registry) SetAll(values map[string]any, opts ...RegisterOption) *Registry {
	for _, key := range util.SortedKeys(values) {
		r.Set(key, values[key], opts...)
	}
	return r
}

// Factory registers fn under key without calling it. fn runs on the first
// Resolve of key and its result is cached. Any previously cached instance
// for key is dropped.
func (r *Registry) Factory(key string, fn FactoryFunc, opts ...RegisterOption) *Registry {
	r.register(key, &descriptor{mode: ModeFactory, factory: fn}, opts)
	return r
}

func (r *Registry) register(key string, d *descriptor, opts []RegisterOption) {
	var o registerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r.mu.Lock()
	_, replaced := r.descriptors[key]
	if !replaced {
		r.order = append(r.order, key)
	}
	r.descriptors[key] = d
	r.appendTags(key, o.tags)
	r.mu.Unlock()

	r.log.Debug("service registered", logger.Fields(
		logger.FieldKey, key,
		logger.FieldMode, d.mode.String(),
		logger.FieldTags, o.tags,
		"replaced", replaced,
	))
}

// Tag appends key to each of tags. The key does not have to be registered
// yet; an unregistered key only fails when the tag is resolved.
func (r *Registry) Tag(key string, tags ...string) *Registry {
	r.mu.Lock()
	r.appendTags(key, tags)
	r.mu.Unlock()
	return r
}

// appendTags must be called with r.mu held.
func (r *Registry) appendTags(key string, tags []string) {
	for _, tag := range tags {
		r.tags[tag] = append(r.tags[tag], key)
	}
}

// Has reports whether key is registered. Dotted paths are not considered.
func (r *Registry) Has(key string) bool {
	_, ok := r.lookup(key)
	return ok
}

func (r *Registry) lookup(key string) (*descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[key]
	return d, ok
}

// Keys returns all registered keys in registration order. Re-registering a
// key keeps its original position.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return util.Clone(r.order)
}

// KeysByTag returns the keys tagged with tag in the order they were tagged.
// Unknown tags yield an empty slice.
func (r *Registry) KeysByTag(tag string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return util.Clone(r.tags[tag])
}

// Registrations returns one entry per registered key, in registration order.
func (r *Registry) Registrations() []RegistrationInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tagsByKey := make(map[string][]string)
	for _, tag := range util.SortedKeys(r.tags) {
		for _, key := range util.Unique(r.tags[tag]) {
			tagsByKey[key] = append(tagsByKey[key], tag)
		}
	}

	result := make([]RegistrationInfo, 0, len(r.order))
	for _, key := range r.order {
		d := r.descriptors[key]
		result = append(result, RegistrationInfo{
			Key:         key,
			Mode:        d.mode,
			Initialized: d.initialized.Load(),
			Tags:        tagsByKey[key],
		})
	}
	return result
}
