// Package config reads process configuration from the environment.
package config

import "os"

// Get returns the value of an environment variable, or the fallback when the
// variable is unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
