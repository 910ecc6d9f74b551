package di

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kbukum/svcreg/errors"
	"github.com/kbukum/svcreg/logger"
)

func newTestRegistry() *Registry {
	return New(WithLogger(logger.Nop()))
}

func TestSetAndResolve(t *testing.T) {
	r := newTestRegistry()
	if got := r.Set("foo", "bar"); got != r {
		t.Error("expected Set to return the registry for chaining")
	}

	val, err := r.Resolve("foo")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if val != "bar" {
		t.Errorf("expected 'bar', got %v", val)
	}
}

func TestSetRoundTrip(t *testing.T) {
	type svc struct{ name string }
	ptr := &svc{name: "x"}
	tests := []struct {
		key   string
		value any
	}{
		{"string", "value"},
		{"int", 42},
		{"pointer", ptr},
		{"nil", nil},
		{"map", map[string]any{"a": 1}},
		{"with.dot", "direct"},
	}
	r := newTestRegistry()
	for _, tc := range tests {
		r.Set(tc.key, tc.value)
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, err := r.Resolve(tc.key)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tc.key, err)
			}
			if !reflect.DeepEqual(got, tc.value) {
				t.Errorf("expected %v, got %v", tc.value, got)
			}
		})
	}
	if got, _ := r.Resolve("pointer"); got != ptr {
		t.Error("expected the identical pointer back")
	}
}

func TestFactoryIsLazyAndMemoized(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	r.Factory("foo", func(*Registry) any {
		calls++
		return &struct{ n int }{n: calls}
	})
	if calls != 0 {
		t.Fatal("expected factory not to be called at registration")
	}

	first, err := r.Resolve("foo")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	second, err := r.Resolve("foo")
	if err != nil {
		t.Fatalf("second Resolve failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected factory called once, got %d", calls)
	}
	if first != second {
		t.Error("expected the cached instance on second resolve")
	}
}

func TestFactoryReturningNilIsCached(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	r.Factory("empty", func(*Registry) any {
		calls++
		return nil
	})
	for i := 0; i < 3; i++ {
		v, err := r.Resolve("empty")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if v != nil {
			t.Errorf("expected nil, got %v", v)
		}
	}
	if calls != 1 {
		t.Errorf("expected factory called once, got %d", calls)
	}
}

func TestFactoryReceivesRegistry(t *testing.T) {
	r := newTestRegistry()
	r.Set("host", "localhost").
		Factory("dsn", func(reg *Registry) any {
			return "postgres://" + MustResolve[string](reg, "host")
		})

	dsn, err := r.Resolve("dsn")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if dsn != "postgres://localhost" {
		t.Errorf("expected 'postgres://localhost', got %v", dsn)
	}
}

func TestFactoryPanicAllowsRetry(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	r.Factory("flaky", func(*Registry) any {
		calls++
		if calls == 1 {
			panic("first call fails")
		}
		return "ok"
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the factory panic to propagate")
			}
		}()
		r.Resolve("flaky")
	}()

	v, err := r.Resolve("flaky")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v != "ok" || calls != 2 {
		t.Errorf("expected 'ok' after 2 calls, got %v after %d", v, calls)
	}
}

func TestConcurrentResolveInvokesFactoryOnce(t *testing.T) {
	r := newTestRegistry()
	var calls atomic.Int32
	r.Factory("shared", func(*Registry) any {
		calls.Add(1)
		return new(int)
	})

	const workers = 32
	results := make([]any, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = r.Resolve("shared")
		}(i)
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("expected factory called once, got %d", calls.Load())
	}
	for i, res := range results {
		if res != results[0] {
			t.Errorf("worker %d got a different instance", i)
		}
	}
}

func TestKeys(t *testing.T) {
	r := newTestRegistry()
	r.Set("foo", "bar")
	if got := r.Keys(); !reflect.DeepEqual(got, []string{"foo"}) {
		t.Errorf("expected [foo], got %v", got)
	}

	r.Factory("baz", func(*Registry) any { return "bee" })
	if got := r.Keys(); !reflect.DeepEqual(got, []string{"foo", "baz"}) {
		t.Errorf("expected [foo baz], got %v", got)
	}
}

func TestKeysKeepPositionOnOverwrite(t *testing.T) {
	r := newTestRegistry()
	r.Set("a", 1).Set("b", 2).Set("a", 3)
	if got := r.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}
}

func TestKeysEmptyRegistry(t *testing.T) {
	got := newTestRegistry().Keys()
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestKeysReturnsCopy(t *testing.T) {
	r := newTestRegistry()
	r.Set("a", 1)
	keys := r.Keys()
	keys[0] = "mutated"
	if r.Keys()[0] != "a" {
		t.Error("expected Keys to return a copy")
	}
}

func TestOverwriteValueWithFactory(t *testing.T) {
	r := newTestRegistry()
	r.Set("svc", "old")
	r.Factory("svc", func(*Registry) any { return "new" })

	v, err := r.Resolve("svc")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v != "new" {
		t.Errorf("expected 'new', got %v", v)
	}
}

func TestOverwriteResolvedFactoryWithFactory(t *testing.T) {
	r := newTestRegistry()
	r.Factory("svc", func(*Registry) any { return "first" })
	if v, _ := r.Resolve("svc"); v != "first" {
		t.Fatalf("expected 'first', got %v", v)
	}

	r.Factory("svc", func(*Registry) any { return "second" })
	if v, _ := r.Resolve("svc"); v != "second" {
		t.Errorf("expected stale instance to be dropped, got %v", v)
	}
}

func TestOverwriteFactoryWithValue(t *testing.T) {
	r := newTestRegistry()
	called := false
	r.Factory("svc", func(*Registry) any {
		called = true
		return "factory"
	})
	r.Set("svc", "value")

	if v, _ := r.Resolve("svc"); v != "value" {
		t.Errorf("expected 'value', got %v", v)
	}
	if called {
		t.Error("expected replaced factory never to run")
	}
}

func taggedFixture() *Registry {
	r := newTestRegistry()
	r.Set("foo", "bar", WithTags("testing"))
	r.Set("baz", "bee", WithTags("testing"))
	r.Set("noop", "nope", WithTags("testing2"))
	r.Factory("nice", func(*Registry) any { return "ice" }, WithTags("testing2"))
	return r
}

func TestKeysByTag(t *testing.T) {
	r := taggedFixture()
	if got := r.KeysByTag("testing"); !reflect.DeepEqual(got, []string{"foo", "baz"}) {
		t.Errorf("expected [foo baz], got %v", got)
	}
	if got := r.KeysByTag("testing2"); !reflect.DeepEqual(got, []string{"noop", "nice"}) {
		t.Errorf("expected [noop nice], got %v", got)
	}
}

func TestKeysByTagUnknown(t *testing.T) {
	got := newTestRegistry().KeysByTag("nope")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestTagged(t *testing.T) {
	r := taggedFixture()

	s, err := r.Tagged("testing")
	if err != nil {
		t.Fatalf("Tagged failed: %v", err)
	}
	if !reflect.DeepEqual(s.Map(), map[string]any{"foo": "bar", "baz": "bee"}) {
		t.Errorf("unexpected services %v", s.Map())
	}

	s2, err := r.Tagged("testing2")
	if err != nil {
		t.Fatalf("Tagged failed: %v", err)
	}
	if !reflect.DeepEqual(s2.Map(), map[string]any{"noop": "nope", "nice": "ice"}) {
		t.Errorf("unexpected services %v", s2.Map())
	}
	if !reflect.DeepEqual(s2.Keys(), r.KeysByTag("testing2")) {
		t.Errorf("expected tag order %v, got %v", r.KeysByTag("testing2"), s2.Keys())
	}
}

func TestTaggedIterationOrder(t *testing.T) {
	r := newTestRegistry()
	for _, k := range []string{"z", "a", "m", "b"} {
		r.Set(k, strings.ToUpper(k), WithTags("ordered"))
	}

	s, err := r.Tagged("ordered")
	if err != nil {
		t.Fatalf("Tagged failed: %v", err)
	}
	var keys, values []string
	for k, v := range s.All() {
		keys = append(keys, k)
		values = append(values, v.(string))
	}
	if !reflect.DeepEqual(keys, []string{"z", "a", "m", "b"}) {
		t.Errorf("expected tag order, got %v", keys)
	}
	if !reflect.DeepEqual(values, []string{"Z", "A", "M", "B"}) {
		t.Errorf("expected values in tag order, got %v", values)
	}
	if s.Len() != 4 {
		t.Errorf("expected 4 services, got %d", s.Len())
	}
	if v, ok := s.Get("m"); !ok || v != "M" {
		t.Errorf("expected Get(m)=M, got %v %v", v, ok)
	}
}

func TestTaggedDuplicateKeyAppearsOnce(t *testing.T) {
	r := newTestRegistry()
	r.Set("a", 1, WithTags("t")).Set("b", 2, WithTags("t"))
	r.Tag("a", "t")

	if got := r.KeysByTag("t"); !reflect.DeepEqual(got, []string{"a", "b", "a"}) {
		t.Errorf("expected duplicates kept in KeysByTag, got %v", got)
	}
	s, err := r.Tagged("t")
	if err != nil {
		t.Fatalf("Tagged failed: %v", err)
	}
	if !reflect.DeepEqual(s.Keys(), []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", s.Keys())
	}
}

func TestTaggedUnknownTag(t *testing.T) {
	s, err := newTestRegistry().Tagged("nope")
	if err != nil {
		t.Fatalf("Tagged failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected no services, got %d", s.Len())
	}
}

func TestTaggedTriggersFactories(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	r.Factory("lazy", func(*Registry) any {
		calls++
		return "built"
	}, WithTags("group"))

	if calls != 0 {
		t.Fatal("expected factory not to run at registration")
	}
	if _, err := r.Tagged("group"); err != nil {
		t.Fatalf("Tagged failed: %v", err)
	}
	if _, err := r.Tagged("group"); err != nil {
		t.Fatalf("Tagged failed: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected factory called once, got %d", calls)
	}
}

func TestEachTagged(t *testing.T) {
	r := taggedFixture()

	var services []any
	var keys []string
	err := r.EachTagged("testing", func(svc any, key string) {
		services = append(services, svc)
		keys = append(keys, key)
	})
	if err != nil {
		t.Fatalf("EachTagged failed: %v", err)
	}
	if !reflect.DeepEqual(services, []any{"bar", "bee"}) {
		t.Errorf("expected [bar bee], got %v", services)
	}
	if !reflect.DeepEqual(keys, []string{"foo", "baz"}) {
		t.Errorf("expected [foo baz], got %v", keys)
	}

	services = nil
	if err := r.EachTagged("testing2", func(svc any, _ string) {
		services = append(services, svc)
	}); err != nil {
		t.Fatalf("EachTagged failed: %v", err)
	}
	if !reflect.DeepEqual(services, []any{"nope", "ice"}) {
		t.Errorf("expected [nope ice], got %v", services)
	}
}

func TestEachTaggedVisitsDuplicates(t *testing.T) {
	r := newTestRegistry()
	r.Set("a", 1).Tag("a", "t", "t")

	visits := 0
	if err := r.EachTagged("t", func(any, string) { visits++ }); err != nil {
		t.Fatalf("EachTagged failed: %v", err)
	}
	if visits != 2 {
		t.Errorf("expected one visit per tag entry (2), got %d", visits)
	}
}

func TestTagUnregisteredKeyFailsOnResolve(t *testing.T) {
	r := newTestRegistry()
	r.Set("present", 1, WithTags("t"))
	r.Tag("ghost", "t")

	if got := r.KeysByTag("t"); !reflect.DeepEqual(got, []string{"present", "ghost"}) {
		t.Errorf("expected [present ghost], got %v", got)
	}

	_, err := r.Tagged("t")
	var nf *NotFoundError
	if !stderrors.As(err, &nf) || nf.Key != "ghost" {
		t.Errorf("expected NotFoundError for ghost, got %v", err)
	}

	visited := 0
	err = r.EachTagged("t", func(any, string) { visited++ })
	if !IsNotFound(err) {
		t.Errorf("expected NotFoundError from EachTagged, got %v", err)
	}
	if visited != 1 {
		t.Errorf("expected visitor to run for keys before the failure, got %d", visited)
	}
}

func TestTagMultipleAndNoTags(t *testing.T) {
	r := newTestRegistry()
	if got := r.Tag("a", "x", "y"); got != r {
		t.Error("expected Tag to return the registry")
	}
	r.Tag("b")
	if got := r.KeysByTag("x"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("expected [a] for x, got %v", got)
	}
	if got := r.KeysByTag("y"); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("expected [a] for y, got %v", got)
	}
}

func TestResolveUnknownKey(t *testing.T) {
	_, err := newTestRegistry().Resolve("nope")
	var nf *NotFoundError
	if !stderrors.As(err, &nf) {
		t.Fatalf("expected *NotFoundError, got %T %v", err, err)
	}
	if nf.Key != "nope" {
		t.Errorf("expected key 'nope', got %q", nf.Key)
	}
	if !strings.Contains(err.Error(), `"nope"`) {
		t.Errorf("expected key in message, got %q", err.Error())
	}
	if !errors.HasCode(err, errors.ErrCodeNotFound) {
		t.Error("expected NotFoundError to unwrap to a NOT_FOUND AppError")
	}
}

func TestDottedPath(t *testing.T) {
	r := newTestRegistry()
	r.Set("foo", map[string]any{"bar": "baz"})

	v, err := r.Resolve("foo.bar")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if v != "baz" {
		t.Errorf("expected 'baz', got %v", v)
	}
}

func TestDottedPathFailureCarriesFullKey(t *testing.T) {
	r := newTestRegistry()
	r.Set("foo", map[string]any{"bar": "baz"})

	tests := []string{"foo.missing", "foo.bar.deeper", "unknown.bar", "foo.", ".foo", "foo..bar"}
	for _, key := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := r.Resolve(key)
			var nf *NotFoundError
			if !stderrors.As(err, &nf) {
				t.Fatalf("expected *NotFoundError, got %v", err)
			}
			if nf.Key != key {
				t.Errorf("expected full key %q, got %q", key, nf.Key)
			}
		})
	}
}

func TestDottedPathMapKeyTypes(t *testing.T) {
	type label string

	r := newTestRegistry()
	r.Set("any", map[any]any{"bar": "baz", 1: "one"})
	r.Set("nested", map[string]any{"inner": map[any]any{"deep": map[any]any{"leaf": true}}})
	r.Set("named", map[label]int{"port": 5432})
	r.Set("ints", map[int]string{1: "one"})

	found := []struct {
		key  string
		want any
	}{
		{"any.bar", "baz"},
		{"nested.inner.deep.leaf", true},
		{"named.port", 5432},
	}
	for _, tc := range found {
		t.Run(tc.key, func(t *testing.T) {
			v, err := r.Resolve(tc.key)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if v != tc.want {
				t.Errorf("expected %v, got %v", tc.want, v)
			}
		})
	}

	for _, key := range []string{"any.1", "any.missing", "ints.1"} {
		t.Run(key, func(t *testing.T) {
			if _, err := r.Resolve(key); !IsNotFound(err) {
				t.Errorf("expected not found, got %v", err)
			}
		})
	}
}

type dbConfig struct {
	Host    string `json:"host"`
	Port    int    `yaml:"port"`
	Options *dbOptions
	secret  string
}

type dbOptions struct {
	Replicas []string `mapstructure:"replicas"`
	Timeout  any
}

type Embedded struct {
	Region string
}

type appConfig struct {
	Embedded
	DB    dbConfig
	Extra map[string]any
}

func TestDottedPathIntoStructs(t *testing.T) {
	r := newTestRegistry()
	r.Set("config", &appConfig{
		Embedded: Embedded{Region: "eu"},
		DB: dbConfig{
			Host:    "db.local",
			Port:    5432,
			Options: &dbOptions{Replicas: []string{"r1", "r2"}},
			secret:  "hidden",
		},
		Extra: map[string]any{"nested": []any{map[string]any{"name": "first"}}, "empty": nil},
	})

	tests := []struct {
		key  string
		want any
	}{
		{"config.DB.Host", "db.local"},
		{"config.DB.host", "db.local"},
		{"config.DB.port", 5432},
		{"config.DB.Options.replicas.1", "r2"},
		{"config.Region", "eu"},
		{"config.Embedded.Region", "eu"},
		{"config.Extra.nested.0.name", "first"},
		{"config.Extra.empty", nil},
		{"config.DB.Options.Timeout", nil},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, err := r.Resolve(tc.key)
			if err != nil {
				t.Fatalf("Resolve(%q) failed: %v", tc.key, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}

	missing := []string{
		"config.DB.secret",
		"config.DB.Options.replicas.5",
		"config.DB.Options.replicas.-1",
		"config.DB.Options.replicas.x",
		"config.Extra.empty.deeper",
		"config.DB.Host.len",
	}
	for _, key := range missing {
		t.Run("missing "+key, func(t *testing.T) {
			if _, err := r.Resolve(key); !IsNotFound(err) {
				t.Errorf("expected NotFoundError for %q, got %v", key, err)
			}
		})
	}
}

func TestDottedPathNilPointerRoot(t *testing.T) {
	r := newTestRegistry()
	var cfg *appConfig
	r.Set("config", cfg)
	if _, err := r.Resolve("config.DB"); !IsNotFound(err) {
		t.Errorf("expected NotFoundError through nil pointer, got %v", err)
	}
}

func TestDottedPathResolvesFactoryRoot(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	r.Factory("settings", func(*Registry) any {
		calls++
		return map[string]string{"mode": "fast"}
	})

	for i := 0; i < 2; i++ {
		v, err := r.Resolve("settings.mode")
		if err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
		if v != "fast" {
			t.Errorf("expected 'fast', got %v", v)
		}
	}
	if calls != 1 {
		t.Errorf("expected factory called once, got %d", calls)
	}
}

func TestDirectDottedKeyWins(t *testing.T) {
	r := newTestRegistry()
	r.Set("a", map[string]any{"b": "nested"})
	r.Set("a.b", "direct")

	if v, _ := r.Resolve("a.b"); v != "direct" {
		t.Errorf("expected direct registration to win, got %v", v)
	}
}

func TestHas(t *testing.T) {
	r := newTestRegistry()
	r.Set("a", map[string]any{"b": 1})
	if !r.Has("a") {
		t.Error("expected Has(a)")
	}
	if r.Has("a.b") {
		t.Error("expected Has to ignore dotted paths")
	}
	if r.Has("missing") {
		t.Error("expected Has(missing) to be false")
	}
}

func TestSetAll(t *testing.T) {
	r := newTestRegistry()
	r.SetAll(map[string]any{"zeta": 1, "alpha": 2, "mid": 3}, WithTags("seed"))

	if got := r.Keys(); !reflect.DeepEqual(got, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("expected sorted registration order, got %v", got)
	}
	if got := r.KeysByTag("seed"); !reflect.DeepEqual(got, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("expected all seeded keys tagged, got %v", got)
	}
}

func TestRegistrations(t *testing.T) {
	r := newTestRegistry()
	r.Set("value", "v", WithTags("b", "a"))
	r.Factory("lazy", func(*Registry) any { return "l" }, WithTags("a"))
	r.Tag("value", "a")

	regs := r.Registrations()
	if len(regs) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(regs))
	}
	if regs[0].Key != "value" || regs[0].Mode != ModeValue || !regs[0].Initialized {
		t.Errorf("unexpected value registration %+v", regs[0])
	}
	if !reflect.DeepEqual(regs[0].Tags, []string{"a", "b"}) {
		t.Errorf("expected tags [a b], got %v", regs[0].Tags)
	}
	if regs[1].Key != "lazy" || regs[1].Mode != ModeFactory || regs[1].Initialized {
		t.Errorf("unexpected factory registration %+v", regs[1])
	}

	r.Resolve("lazy")
	if !r.Registrations()[1].Initialized {
		t.Error("expected factory to be initialized after resolve")
	}
}

func TestModeString(t *testing.T) {
	if ModeValue.String() != "value" || ModeFactory.String() != "factory" {
		t.Errorf("unexpected mode names %s %s", ModeValue, ModeFactory)
	}
	if Mode(9).String() != "unknown" {
		t.Errorf("expected unknown, got %s", Mode(9))
	}
}

func TestRegistriesAreIsolated(t *testing.T) {
	a := newTestRegistry()
	b := newTestRegistry()
	a.Set("shared", "a", WithTags("t"))

	if b.Has("shared") {
		t.Error("expected registries not to share descriptors")
	}
	if len(b.KeysByTag("t")) != 0 {
		t.Error("expected registries not to share tags")
	}
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID(), b.ID())
	}
}

func TestDebugLogging(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter(&buf, &logger.Config{Level: "debug", Format: "json"}, "test")
	r := New(WithLogger(l))

	r.Factory("svc", func(*Registry) any { return 1 }, WithTags("t"))
	r.Resolve("svc")
	r.Resolve("missing")

	out := buf.String()
	for _, want := range []string{"service registered", "factory invoked", "service not found", r.ID()} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log output to contain %q, got %s", want, out)
		}
	}
}

func TestPkgNames(t *testing.T) {
	if Pkg.Config != "config" {
		t.Errorf("expected 'config', got %q", Pkg.Config)
	}
	if Pkg.Logger != "logger" {
		t.Errorf("expected 'logger', got %q", Pkg.Logger)
	}
	if Pkg.Registry != "registry" {
		t.Errorf("expected 'registry', got %q", Pkg.Registry)
	}
}
