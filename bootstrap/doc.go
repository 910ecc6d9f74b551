// Package bootstrap builds a service registry from a loaded config.
//
// # Quick Start
//
//	var cfg config.Config
//	if err := config.LoadConfig("billing", &cfg); err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyDefaults()
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	reg := bootstrap.NewRegistry(&cfg)
//	host, err := di.Resolve[string](reg, "db.host")
//
// NewRegistry seeds the registry with the config itself, a logger, the
// registry and every entry under `services:`, then applies `tags:`.
// Summary renders what ended up registered.
package bootstrap
