package profile

import (
	"os"

	"github.com/matheus3301/adminterm/internal/config"
)

const DefaultProfileName = "main"

// Resolve determines the active profile name using precedence:
// 1. flagOverride (--profile flag)
// 2. ADMINTERM_PROFILE, from the process or a .env in the working directory
// 3. config.toml default_profile
// 4. "main"
//
// A profile's own .env comes later and cannot select the profile. Other
// ADMINTERM_* variables are not parsed here; bad values fail when the
// profile's config loads.
func Resolve(flagOverride string) string {
	if flagOverride != "" {
		return flagOverride
	}
	// A malformed .env is reported again by LoadConfig.
	_ = config.LoadDotenv(".env")
	if v := os.Getenv(config.EnvProfile); v != "" {
		return v
	}
	cfg, err := config.LoadOrDefault(ConfigPath())
	if err == nil && cfg.DefaultProfile != "" {
		return cfg.DefaultProfile
	}
	return DefaultProfileName
}
