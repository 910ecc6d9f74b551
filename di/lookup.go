package di

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/svcreg/logger"
)

// Resolve returns the service registered under key.
//
// A key with a direct registration wins. Otherwise a dotted key resolves its
// first segment and walks the rest of the path into the resulting value.
// Any miss fails with a *NotFoundError carrying the full key.
func (r *Registry) Resolve(key string) (any, error) {
	return r.ResolveContext(context.Background(), key)
}

// ResolveContext is Resolve with a span recorded under ctx.
func (r *Registry) ResolveContext(ctx context.Context, key string) (any, error) {
	ctx, span := r.tracer.Start(ctx, "di.resolve", trace.WithAttributes(
		attribute.String("di.key", key),
		attribute.String("di.registry_id", r.id),
	))
	defer span.End()

	v, err := r.resolve(ctx, key)
	if err != nil {
		r.stats.recordResolve(ctx, r.id, resultNotFound)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.log.WithContext(ctx).Debug("service not found", logger.ErrorFields(key, err))
		return nil, err
	}
	r.stats.recordResolve(ctx, r.id, resultFound)
	return v, nil
}

func (r *Registry) resolve(ctx context.Context, key string) (any, error) {
	if d, ok := r.lookup(key); ok {
		return r.instance(ctx, key, d), nil
	}

	root, rest, dotted := strings.Cut(key, ".")
	if !dotted {
		return nil, &NotFoundError{Key: key}
	}
	d, ok := r.lookup(root)
	if !ok {
		return nil, &NotFoundError{Key: key}
	}
	v, found := walkPath(r.instance(ctx, root, d), strings.Split(rest, "."))
	if !found {
		return nil, &NotFoundError{Key: key}
	}
	return v, nil
}

// instance returns the cached instance of d, running its factory first if
// this is the first resolution.
func (r *Registry) instance(ctx context.Context, key string, d *descriptor) any {
	if d.initialized.Load() {
		return d.instance
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Double-check pattern
	if d.initialized.Load() {
		return d.instance
	}

	ctx, span := r.tracer.Start(ctx, "di.factory", trace.WithAttributes(
		attribute.String("di.key", key),
	))
	defer span.End()

	start := time.Now()
	d.instance = d.factory(r)
	d.initialized.Store(true)
	elapsed := time.Since(start)

	r.stats.recordFactory(ctx, key, elapsed)
	r.log.WithContext(ctx).Debug("factory invoked", logger.DurationFields(key, elapsed))
	return d.instance
}
