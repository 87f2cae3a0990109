package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/amankumarsingh77/veda-gateway/internal/models"
	"github.com/spf13/cobra"
)

var pollInterval = 3 * time.Second

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Queue a generation job on the API server",
	Long: `Queue a prompt on the VEDA API server and print the job id.

Example:
  vedactl submit --prompt "a paper boat on a rainy street" --style aesthetic
  vedactl submit -p "drone shot over a glacier" --frames 24 --seed 7 --wait`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		prompt, _ := flags.GetString("prompt")
		style, _ := flags.GetString("style")
		upscale, _ := flags.GetBool("upscale")
		wait, _ := flags.GetBool("wait")

		if prompt == "" {
			return errors.New("--prompt is required")
		}
		req := models.GenerateRequest{Prompt: prompt, Style: style, Upscale: upscale}
		if flags.Changed("seed") {
			seed, _ := flags.GetInt64("seed")
			req.Seed = &seed
		}
		if flags.Changed("frames") {
			frames, _ := flags.GetInt("frames")
			req.NumFrames = &frames
		}

		client, err := apiClient()
		if err != nil {
			return err
		}
		res, err := client.Submit(cmd.Context(), req)
		if err != nil {
			return err
		}
		cmd.Printf("Job submitted!\nJob ID: %s\nStatus: %s\n", res.JobID, res.Status)
		if !wait {
			return nil
		}
		st, err := waitForJob(cmd.Context(), client, res.JobID, func(s *models.JobStatusResponse) {
			cmd.Printf("... %s\n", s.Status)
		})
		if err != nil {
			return err
		}
		printStatus(cmd, st)
		return nil
	},
}

// waitForJob polls the job until it reaches a terminal status, reporting each status change.
func waitForJob(ctx context.Context, client *APIClient, jobID string, onChange func(*models.JobStatusResponse)) (*models.JobStatusResponse, error) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	var last models.JobStatus
	for {
		st, err := client.Status(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if st.Status != last {
			last = st.Status
			if onChange != nil {
				onChange(st)
			}
		}
		if st.Status.IsTerminal() {
			return st, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func init() {
	flags := submitCmd.Flags()
	flags.StringP("prompt", "p", "", "text prompt (required)")
	flags.StringP("style", "s", "cinematic", "style preset")
	flags.Int64("seed", 0, "seed; random when omitted")
	flags.Int("frames", 16, "number of frames")
	flags.Bool("upscale", false, "upscale the result")
	flags.BoolP("wait", "w", false, "poll until the job finishes")

	rootCmd.AddCommand(submitCmd)
}
