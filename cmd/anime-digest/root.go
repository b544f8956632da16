package main

import (
	"os"

	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "anime-digest",
		Short:         "Post the MyAnimeList ranking to Slack",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	rootCmd.PersistentFlags().StringVarP(&opts.profile, "profile", "p", profile, "Configuration profile (configs/<profile>.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs", "Directory holding base.yaml and profile files")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "Optional .env file; never overrides the environment")

	rootCmd.AddCommand(newServeCommand(opts))
	rootCmd.AddCommand(newRunCommand(opts))
	rootCmd.AddCommand(newPreviewCommand(opts))

	return rootCmd
}
