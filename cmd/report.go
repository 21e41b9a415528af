package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/harness-community/fme-report/pkg/config"
	"github.com/harness-community/fme-report/pkg/provider"
	"github.com/harness-community/fme-report/pkg/runtime"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Fetch all workspaces and flags and print the report",
	Long:  ``,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}

		users := provider.NewUserResolver(cfg.UsersURL, cfg.APIToken, cfg.AccountID)
		source := provider.NewFME(cfg.BaseURL, cfg.APIToken, users)

		return runtime.Run(cmd.Context(), source, os.Stdout, time.Now())
	},
}

func init() {
	reportCmd.Flags().String("api-token", "", "Harness API token (defaults to HARNESS_API_TOKEN)")
	reportCmd.Flags().String("account-id", "", "Harness account identifier (defaults to HARNESS_ACCOUNT_ID)")
	reportCmd.Flags().String("base-url", config.DefaultBaseURL, "FME API base URL")
	reportCmd.Flags().String("users-url", config.DefaultUsersURL, "Harness NG API base URL for user lookups")

	viper.BindPFlag("api-token", reportCmd.Flags().Lookup("api-token"))
	viper.BindPFlag("account-id", reportCmd.Flags().Lookup("account-id"))
	viper.BindPFlag("base-url", reportCmd.Flags().Lookup("base-url"))
	viper.BindPFlag("users-url", reportCmd.Flags().Lookup("users-url"))

	rootCmd.AddCommand(reportCmd)
}
