package console

import (
	"github.com/matheus3301/adminterm/internal/config"
	"github.com/matheus3301/adminterm/internal/profile"
)

// LoadConfig returns the effective configuration for a profile. The
// profile's .env and a .env in the working directory are loaded first so
// their ADMINTERM_* values take part in the environment overlay; variables
// already set in the process win over both files.
func LoadConfig(profileName string) (*config.Config, error) {
	if err := config.LoadDotenv(profile.EnvPath(profileName), ".env"); err != nil {
		return nil, err
	}
	cfg, err := config.LoadOrDefault(profile.ConfigPath())
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
