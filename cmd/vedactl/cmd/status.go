package cmd

import (
	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [job_id]",
	Short: "Show the status of a generation job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := apiClient()
		if err != nil {
			return err
		}
		st, err := client.Status(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printStatus(cmd, st)
		return nil
	},
}

func printStatus(cmd *cobra.Command, st *models.JobStatusResponse) {
	cmd.Printf("Job:      %s\n", st.JobID)
	cmd.Printf("Status:   %s\n", st.Status)
	if st.DurationSeconds != nil {
		cmd.Printf("Duration: %.1fs\n", *st.DurationSeconds)
	}
	if st.ResultPath != nil {
		cmd.Printf("Result:   %s\n", *st.ResultPath)
	}
	if st.Error != nil {
		cmd.Printf("Error:    %s\n", *st.Error)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
