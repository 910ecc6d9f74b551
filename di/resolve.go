package di

import (
	"fmt"
	"reflect"

	"github.com/kbukum/svcreg/errors"
)

// MustResolve resolves a service with type safety, panics on error.
// Use this inside factories when a dependency is mandatory.
//
// Example:
//
//	cfg := di.MustResolve[*config.Config](r, di.Pkg.Config)
func MustResolve[T any](r *Registry, key string) T {
	result, err := Resolve[T](r, key)
	if err != nil {
		panic(err)
	}
	return result
}

// Resolve resolves a service with type safety, returns error on failure.
// A missing key still satisfies IsNotFound; a value of the wrong type
// yields an *errors.AppError with code TYPE_MISMATCH.
//
// Example:
//
//	port, err := di.Resolve[int](r, "config.http.port")
//	if err != nil {
//	    return fmt.Errorf("http port: %w", err)
//	}
func Resolve[T any](r *Registry, key string) (T, error) {
	var zero T
	instance, err := r.Resolve(key)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", key, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, errors.TypeMismatch(key, instance, reflect.TypeFor[T]().String())
	}
	return result, nil
}

// TryResolve resolves a service, returns zero value and false if it is
// missing or of another type. Use this when a dependency is optional.
//
// Example:
//
//	if tracer, ok := di.TryResolve[Tracer](r, "tracer"); ok {
//	    tracer.Start(...)
//	}
func TryResolve[T any](r *Registry, key string) (T, bool) {
	result, err := Resolve[T](r, key)
	return result, err == nil
}
