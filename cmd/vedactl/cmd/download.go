package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var downloadCmd = &cobra.Command{
	Use:   "download [job_id]",
	Short: "Save the video of a completed job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID := args[0]
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = fmt.Sprintf("veda_%s.mp4", jobID)
		}

		client, err := apiClient()
		if err != nil {
			return err
		}
		n, err := client.Download(cmd.Context(), jobID, output)
		if err != nil {
			return err
		}
		cmd.Printf("Saved %s (%d bytes)\n", output, n)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringP("output", "o", "", "output file (default veda_<job_id>.mp4)")
	rootCmd.AddCommand(downloadCmd)
}
