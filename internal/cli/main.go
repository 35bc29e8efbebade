package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "shortclips <url-or-file>",
		Short:        "Cut short vertical clips from a long video",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.PersistentFlags().String("config", "shortclips.toml", "Optional TOML config file")
	root.PersistentFlags().BoolP("verbose", "v", false, "Debug logging")
	root.Flags().String("out", "", "Output directory")
	root.Flags().Int("clips", 0, "Number of clips")
	root.Flags().Bool("music", true, "Mix in background music")
	root.Flags().Bool("zoom", true, "Apply slow zoom effect")

	// Hidden tuning flags (internal)
	root.Flags().Float64("min", 0, "Min clip duration seconds")
	root.Flags().Float64("max", 0, "Max clip duration seconds")
	_ = root.Flags().MarkHidden("min")
	_ = root.Flags().MarkHidden("max")

	serve := &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runServe,
	}
	root.AddCommand(serve)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
