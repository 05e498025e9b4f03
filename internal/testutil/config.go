package testutil

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/springymate/book-scanner/internal/config"
)

// ResetConfig resets viper, clears every environment variable the config
// package binds and restores viper when the test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	viper.Reset()
	for _, env := range config.EnvVars() {
		t.Setenv(env, "")
	}

	t.Cleanup(viper.Reset)
}
