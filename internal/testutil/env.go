// Package testutil holds helpers shared by package tests.
package testutil

import (
	"os"
	"testing"
)

// WithEnv sets key to val for the duration of a test. An empty val unsets
// the variable. The returned func restores the previous value.
func WithEnv(t *testing.T, key, val string) func() {
	t.Helper()
	old, had := os.LookupEnv(key)
	if val == "" {
		_ = os.Unsetenv(key)
	} else {
		_ = os.Setenv(key, val)
	}
	return func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	}
}
