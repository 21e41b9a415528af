package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/harness-community/fme-report/pkg/model"
)

const (
	// DefaultBaseURL is the FME (Split.io) internal API root serving the
	// workspace and flag listings.
	DefaultBaseURL = "https://api.split.io/internal/api/v2"

	// DefaultUsersURL is the Harness NG API root used to resolve flag owner
	// user IDs to email addresses.
	DefaultUsersURL = "https://app.harness.io/ng/api"
)

type Config struct {
	APIToken  string
	AccountID string
	BaseURL   string
	UsersURL  string
}

// Load reads the configuration from the given viper instance, falling back
// to the HARNESS_API_TOKEN and HARNESS_ACCOUNT_ID environment variables for
// the two required values. It fails before any network activity when either
// required value is absent.
func Load(v *viper.Viper) (Config, error) {
	v.SetDefault("base-url", DefaultBaseURL)
	v.SetDefault("users-url", DefaultUsersURL)
	_ = v.BindEnv("api-token", "HARNESS_API_TOKEN")
	_ = v.BindEnv("account-id", "HARNESS_ACCOUNT_ID")

	cfg := Config{
		APIToken:  v.GetString("api-token"),
		AccountID: v.GetString("account-id"),
		BaseURL:   v.GetString("base-url"),
		UsersURL:  v.GetString("users-url"),
	}

	if cfg.APIToken == "" {
		return Config{}, fmt.Errorf(
			"%w: HARNESS_API_TOKEN is not set, export it or pass --api-token",
			model.ErrConfigMissing)
	}
	if cfg.AccountID == "" {
		return Config{}, fmt.Errorf(
			"%w: HARNESS_ACCOUNT_ID is not set, export it or pass --account-id",
			model.ErrConfigMissing)
	}

	return cfg, nil
}
