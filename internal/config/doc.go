// Package config provides the configuration object for onionwatch.
// It defines the Tor endpoints, fetch behavior, storage backend, mail relay
// and logging options, and loads them from an optional YAML file and a
// small set of environment variables read once at startup.
package config
