package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cfg "pipr/internal/config"
)

func init() {
	configCmd.AddCommand(configPathCmd, configReferenceCmd, configSchemaCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and create the pipr config file",
}

// configFile returns the --config override or the default location.
func configFile() (string, error) {
	if rootOpts.ConfigPath != "" {
		return rootOpts.ConfigPath, nil
	}
	return cfg.FilePath()
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := configFile()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p)
		return nil
	},
}

var configReferenceCmd = &cobra.Command{
	Use:   "reference",
	Short: "Print the commented default config",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), cfg.Reference)
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of pipr.yaml",
	Long:  "Writes the JSON Schema of the config file to stdout, for editor validation of pipr.yaml.",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := cfg.MarshalSchema(cfg.Schema())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return nil
	},
}
