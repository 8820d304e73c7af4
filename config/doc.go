// Package config loads the gateway's startup configuration: a YAML file
// describing providers (base URLs, default models) and gateway tuning
// (concurrency, timeout, rate limit), overlaid with environment variables
// for credentials. An optional .env file can seed the environment in
// development.
//
// The loaded Config is immutable by convention; nothing in the module
// mutates it after startup.
package config
