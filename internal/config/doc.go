// Package config loads, validates, and defaults the TOML configuration for
// princer. Environment fallbacks for secrets are resolved once during Load;
// no other package reads ambient state.
package config
