package cmd

import (
	"github.com/spf13/cobra"
)

var stylesCmd = &cobra.Command{
	Use:   "styles",
	Short: "List the style presets the server knows",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		res, err := client.Styles(cmd.Context())
		if err != nil {
			return err
		}
		for _, s := range res.Styles {
			cmd.Println(s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stylesCmd)
}
