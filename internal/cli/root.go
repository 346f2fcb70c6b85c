package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pipr/internal/app"
)

var rootOpts app.Options

var rootCmd = &cobra.Command{
	Use:   "pipr",
	Short: "pipr – interactive shell pipeline builder",
	Long:  "pipr re-runs the command you are typing and shows its output live, so pipelines can be built one stage at a time.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Start(rootOpts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&rootOpts.Initial, "default", "d", "", "text to start the editor with")
	f.BoolVar(&rootOpts.NoIsolation, "no-isolation", false, "run commands directly instead of inside bubblewrap")
	f.BoolVar(&rootOpts.Raw, "raw", false, "join lines with newlines instead of spaces")
	rootCmd.PersistentFlags().StringVar(&rootOpts.ConfigPath, "config", "", "config file (default <config dir>/pipr/pipr.yaml)")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
