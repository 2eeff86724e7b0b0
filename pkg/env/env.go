// Package env reads process-level settings that are needed before config is
// loaded.
package env

import (
	"os"
	"strings"
)

// Get returns the trimmed value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// Instance names the running process for logs: the platform dyno when set,
// then the hostname, then "local".
func Instance() string {
	if dyno := Get("DYNO", ""); dyno != "" {
		return dyno
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
