// Package di provides a name-keyed service registry for composing
// application objects.
//
// Services are registered either as ready values or as lazy factories that
// run once, on first resolution, and are cached afterwards. Keys can be
// grouped under tags and resolved in bulk. A dotted key such as "db.host"
// resolves "db" through the registry and then walks into the resolved value
// (maps, struct fields, slice indexes).
//
// # Registration
//
//	r := di.New()
//	r.Set("config", cfg).
//	    Factory("db", func(r *di.Registry) any {
//	        return openDB(di.MustResolve[*Config](r, "config"))
//	    }, di.WithTags("closers"))
//
// # Resolution
//
//	db, err := r.Resolve("db")
//	host := di.MustResolve[string](r, "config.Database.Host")
//
// # Tags
//
//	err := r.EachTagged("closers", func(svc any, key string) {
//	    svc.(io.Closer).Close()
//	})
//
// # Telemetry
//
// ResolveContext records a di.resolve span, with a di.factory child when a
// factory runs. Resolutions and factory runs are counted on the meter from
// WithMeter or the global provider.
//
// A Registry is safe for concurrent use. Factories run without the registry
// lock held, so they may resolve other keys, but a factory must not resolve
// its own key.
package di
