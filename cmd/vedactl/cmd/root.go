package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/amankumarsingh77/veda-gateway/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "vedactl",
	Short: "vedactl is a command line tool for the VEDA video generation gateway",
	Long: `vedactl submits prompts to a VEDA API server and fetches the finished videos.

Common workflows:

  Queue a job and follow it:
    vedactl submit --prompt "a lighthouse in a storm" --style cinematic --wait

  Check a job:
    vedactl status <job-id>

  Save the video:
    vedactl download <job-id> -o storm.mp4

  Generate directly on a remote notebook, without an API server:
    vedactl generate --remote https://xxxx.gradio.live --prompt "neon city at night"

Configuration:
  VEDA_URL      API endpoint (default: http://localhost:8000)
  VEDA_TOKEN    bearer token for the API
  VEDA_SECRET   server JWT secret; vedactl signs its own token when set`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".vedactl")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("VEDA")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// apiClient builds a client from the persistent flags, signing a token when only the secret is known.
func apiClient() (*APIClient, error) {
	token := viper.GetString("token")
	if token == "" {
		if secret := viper.GetString("secret"); secret != "" {
			signed, err := utils.GenerateJWTToken("vedactl", secret, time.Hour)
			if err != nil {
				return nil, fmt.Errorf("could not sign token: %w", err)
			}
			token = signed
		}
	}
	return NewAPIClient(viper.GetString("url"), token), nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vedactl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:8000", "VEDA API URL")
	_ = viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))

	rootCmd.PersistentFlags().StringP("token", "t", "", "bearer token for the API")
	_ = viper.BindPFlag("token", rootCmd.PersistentFlags().Lookup("token"))

	rootCmd.PersistentFlags().String("secret", "", "JWT secret used to sign a token locally")
	_ = viper.BindPFlag("secret", rootCmd.PersistentFlags().Lookup("secret"))
}
