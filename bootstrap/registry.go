package bootstrap

import (
	"github.com/kbukum/svcreg/config"
	"github.com/kbukum/svcreg/di"
	"github.com/kbukum/svcreg/logger"
	"github.com/kbukum/svcreg/util"
)

// NewRegistry creates a registry seeded from cfg.
//
// The config, a logger built from cfg.Logging and the registry itself are
// registered under the keys in di.Pkg. Every cfg.Services entry follows, in
// key order, and cfg.Tags is applied tag by tag in sorted tag order. Options
// are passed to di.New after the defaults, so they may replace the logger.
func NewRegistry(cfg *config.Config, opts ...di.Option) *di.Registry {
	if cfg == nil {
		cfg = &config.Config{}
	}

	log := logger.New(&cfg.Logging, cfg.Name)
	r := di.New(append([]di.Option{di.WithLogger(log.WithComponent("di"))}, opts...)...)

	r.Set(di.Pkg.Config, cfg)
	r.Set(di.Pkg.Logger, log)
	r.Factory(di.Pkg.Registry, func(r *di.Registry) any { return r })
	r.SetAll(cfg.Services)

	for _, tag := range util.SortedKeys(cfg.Tags) {
		for _, key := range cfg.Tags[tag] {
			r.Tag(key, tag)
		}
	}

	log.WithComponent("bootstrap").Info("registry ready", logger.Fields(
		logger.FieldRegistryID, r.ID(),
		"services", len(r.Keys()),
		"tags", len(cfg.Tags),
	))
	return r
}
