// Package cmd wires pgkeeper's cobra command, binding flags to viper and
// producing a validated cfg.Config for main to run.
package cmd

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"pgkeeper/cfg"
	"pgkeeper/internal/apperr"
)

var (
	cfgFile       string
	bindErr       error
	configFileErr error
	unmarshalErr  error

	// RunConfig is the fully bound, validated configuration RunE hands to
	// main's component wiring.
	RunConfig cfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "pgkeeper",
	Short: "Keep a working set of file-backed pages resident in the host page cache",
	Long: `pgkeeper manipulates the host page cache to study and control reclaim
behavior: it keeps a configurable set of file-backed pages resident, optionally
drives a transient pager that generates competing cold pageins, measures how
long a victim page survives eviction, and can report host memory statistics.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return apperr.Wrap(apperr.Config, bindErr)
		}
		if configFileErr != nil {
			return apperr.Wrap(apperr.Config, configFileErr)
		}
		if unmarshalErr != nil {
			return apperr.Wrap(apperr.Config, unmarshalErr)
		}
		if err := cfg.Validate(&RunConfig); err != nil {
			return apperr.Wrap(apperr.Config, err)
		}
		cfg.Rationalize(&RunConfig)
		return run(cmd.Context(), &RunConfig)
	},
}

// Execute runs the root command, exiting the process with the exit code
// the invoked error category implies.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "Path to a YAML config file.")
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags())
}

func initConfig() {
	RunConfig = cfg.GetDefaultConfig()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			configFileErr = fmt.Errorf("reading config file: %w", err)
			return
		}
	}
	// Config fields carry yaml tags, not the mapstructure tags viper's
	// decoder looks for by default, so the tag name has to be overridden
	// the same way the dash-cased flag keys are decoded elsewhere in this
	// codebase's config tooling.
	unmarshalErr = viper.Unmarshal(&RunConfig, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
	})
}
