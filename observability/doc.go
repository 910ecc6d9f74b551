// Package observability sets up OpenTelemetry trace and metric export for
// svcreg processes.
//
// Registries record di.resolve and di.factory spans plus di.* metrics on
// the global providers. Setup installs OTLP/HTTP providers for them when
// enabled in config:
//
//	observability:
//	  enabled: true
//	  endpoint: localhost:4318
//	  insecure: true
//
//	shutdown, err := observability.Setup(ctx, cfg.Observability, observability.ServiceInfo{Name: cfg.Name})
//	defer shutdown(ctx)
package observability
