package env

import (
	"os"
	"strings"
)

// Get returns the value of the first non-empty variable in keys, or fallback.
// Callers list the SUPPLYHUB_ prefixed name before any bare alias.
func Get(fallback string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return fallback
}
