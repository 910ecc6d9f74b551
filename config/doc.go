// Package config loads svcreg configuration with Viper.
//
// Values come from a YAML, JSON or TOML file, then from a .env file and the
// process environment. Environment variables override keys the file sets,
// using underscores for dots (SERVICES_DB_HOST overrides services.db.host).
//
// # Usage
//
//	var cfg config.Config
//	err := config.LoadConfig("svcreg", &cfg, config.WithConfigFile("config.yml"))
//
// Viper folds keys to lower case, so seeded service names are lower case.
package config
