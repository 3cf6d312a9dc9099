// Package config loads and validates application configuration from
// environment variables (prefix WARD) layered over an optional YAML file.
// It also owns the staffing-model constants (risk threshold, 1:N nurse
// estimation model, minimum-ratio bounds) so that the analytics engine
// never hard-codes them.
package config
