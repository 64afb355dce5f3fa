package api

import (
	"fmt"
	"os"

	"github.com/howto-cli/howto/internal/config"
)

// PrerequisiteError means the API credential is not present. It is raised
// before any network call is attempted.
type PrerequisiteError struct {
	EnvVar string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("missing API credential: set the %s environment variable", e.EnvVar)
}

// ResolveKey reads the API key from the environment variable named in the
// config.
func ResolveKey(cfg config.Config) (string, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return "", &PrerequisiteError{EnvVar: cfg.APIKeyEnv}
	}
	return key, nil
}
