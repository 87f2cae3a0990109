package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/amankumarsingh77/veda-gateway/internal/config"
	"github.com/amankumarsingh77/veda-gateway/internal/remote"
	remoteUsecase "github.com/amankumarsingh77/veda-gateway/internal/remote/usecase"
	"github.com/amankumarsingh77/veda-gateway/pkg/logger"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a video directly on a remote notebook backend",
	Long: `Connect to a remote Gradio backend (for example a Colab *.gradio.live share URL),
run one generation and save the video locally. No API server is involved.

Example:
  vedactl generate --remote xxxx.gradio.live --prompt "koi pond at dawn" --style nature -o koi.mp4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		remoteURL, _ := flags.GetString("remote")
		prompt, _ := flags.GetString("prompt")
		style, _ := flags.GetString("style")
		frames, _ := flags.GetInt("frames")
		seed, _ := flags.GetInt64("seed")
		upscale, _ := flags.GetBool("upscale")
		output, _ := flags.GetString("output")
		verbose, _ := flags.GetBool("verbose")

		if prompt == "" {
			return errors.New("--prompt is required")
		}
		if output == "" {
			output = "veda_remote.mp4"
		}
		output, err := filepath.Abs(output)
		if err != nil {
			return err
		}

		cfg := &config.Config{
			Remote: config.RemoteConfig{RequestTimeout: 600, DefaultFrames: 16},
			Logger: config.Logger{Encoding: "console", Level: "warn"},
		}
		if verbose {
			cfg.Logger.Level = "debug"
		}
		appLogger := logger.NewApiLogger(cfg)
		appLogger.InitLogger()

		remoteUC := remoteUsecase.NewRemoteUseCase(cfg, nil, appLogger)
		state, err := remoteUC.Connect(cmd.Context(), remoteURL)
		if err != nil {
			return err
		}
		cmd.Printf("Connected to %s\n", state.URL)

		res, err := remoteUC.Generate(cmd.Context(), remote.GenerateParams{
			Prompt:  prompt,
			Style:   style,
			Frames:  frames,
			Seed:    seed,
			Upscale: upscale,
		}, output)
		if err != nil {
			return err
		}
		cmd.Println(res.Status)
		if res.VideoPath == "" {
			return fmt.Errorf("%w: %s", remote.ErrNoVideo, res.Status)
		}
		cmd.Printf("Saved %s\n", res.VideoPath)
		return nil
	},
}

func init() {
	flags := generateCmd.Flags()
	flags.String("remote", "", "remote backend URL (required)")
	flags.StringP("prompt", "p", "", "text prompt (required)")
	flags.StringP("style", "s", "cinematic", "style preset")
	flags.Int("frames", 16, "number of frames")
	flags.Int64("seed", 42, "seed")
	flags.Bool("upscale", true, "upscale the result")
	flags.StringP("output", "o", "", "output file (default veda_remote.mp4)")
	flags.BoolP("verbose", "v", false, "log remote calls")
	_ = generateCmd.MarkFlagRequired("remote")

	rootCmd.AddCommand(generateCmd)
}
