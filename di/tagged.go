package di

import (
	"context"
	"iter"
	"maps"

	"github.com/kbukum/svcreg/util"
)

// Visitor is called with each resolved service of a tag and its key.
type Visitor func(service any, key string)

// Services is the result of Tagged: resolved services keyed by name,
// iterated in tag order.
type Services struct {
	keys   []string
	values map[string]any
}

// Len returns the number of distinct keys.
func (s *Services) Len() int { return len(s.keys) }

// Keys returns the keys in tag order, each once.
func (s *Services) Keys() []string { return util.Clone(s.keys) }

// Get returns the service resolved for key.
func (s *Services) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Map returns a copy of the services as a plain map.
func (s *Services) Map() map[string]any { return maps.Clone(s.values) }

// All iterates over key/service pairs in tag order.
func (s *Services) All() iter.Seq2[string, any] {
	return func(yield func(string, any) bool) {
		for _, k := range s.keys {
			if !yield(k, s.values[k]) {
				return
			}
		}
	}
}

// Tagged resolves every key tagged with tag, in tag order, running pending
// factories as needed. A key tagged more than once appears once, at its
// first position. The first resolution failure is returned.
func (r *Registry) Tagged(tag string) (*Services, error) {
	return r.TaggedContext(context.Background(), tag)
}

// TaggedContext is Tagged with resolution spans recorded under ctx.
func (r *Registry) TaggedContext(ctx context.Context, tag string) (*Services, error) {
	keys := util.Unique(r.KeysByTag(tag))
	s := &Services{keys: keys, values: make(map[string]any, len(keys))}
	for _, key := range keys {
		v, err := r.ResolveContext(ctx, key)
		if err != nil {
			return nil, err
		}
		s.values[key] = v
	}
	return s, nil
}

// EachTagged resolves the keys tagged with tag and calls visit once per
// entry, in tag order, without building a collection. It stops at the
// first resolution failure.
//
// Unlike Set, Factory and Tag, EachTagged returns that failure instead of
// the registry, so it ends a call chain.
func (r *Registry) EachTagged(tag string, visit Visitor) error {
	for _, key := range r.KeysByTag(tag) {
		v, err := r.Resolve(key)
		if err != nil {
			return err
		}
		visit(v, key)
	}
	return nil
}
