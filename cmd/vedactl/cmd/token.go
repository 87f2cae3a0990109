package cmd

import (
	"errors"
	"time"

	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Sign an API token with the server secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := viper.GetString("secret")
		if secret == "" {
			return errors.New("--secret or VEDA_SECRET is required")
		}
		subject, _ := cmd.Flags().GetString("subject")
		ttl, _ := cmd.Flags().GetDuration("ttl")
		token, err := utils.GenerateJWTToken(subject, secret, ttl)
		if err != nil {
			return err
		}
		cmd.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().String("subject", "vedactl", "token subject")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
