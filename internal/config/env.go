package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ParseEnv overlays environment variables onto target. Fields whose variable
// is unset keep the value already loaded from YAML.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
