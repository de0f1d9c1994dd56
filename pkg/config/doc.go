// Package config handles configuration management for osxuniversal.
// Values are layered from embedded defaults, an optional TOML file and
// OSXUNIVERSAL_ environment variables, in that order.
package config
