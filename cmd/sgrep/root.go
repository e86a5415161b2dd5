package main

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/sgrep/internal/version"
	"github.com/arthur-debert/sgrep/pkg/config"
	"github.com/arthur-debert/sgrep/pkg/errors"
	"github.com/arthur-debert/sgrep/pkg/logging"
	"github.com/arthur-debert/sgrep/pkg/paths"
	"github.com/arthur-debert/sgrep/pkg/resolver"
)

var (
	verbosity      int
	configSpec     string
	pattern        string
	lang           string
	validate       bool
	generateConfig bool
	precommit      bool

	rootCmd = &cobra.Command{
		Use:   "sgrep [target...]",
		Short: "Resolve rule configurations for pattern matching",
		Long: `sgrep resolves a configuration specifier - a registry entry name, a URL,
or a local file or directory of YAML rule files - into a concrete set of
rule documents. Without a specifier the conventional default locations
are probed.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE:          runRoot,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	rootCmd.Flags().StringVarP(&configSpec, "config", "f", "", "Config YAML file or directory of YAML files, a config URL, or a registry entry name")
	rootCmd.Flags().StringVarP(&pattern, "pattern", "e", "", "Inline pattern to run instead of a config source")
	rootCmd.Flags().StringVarP(&lang, "lang", "l", "", "Language for the inline pattern")
	rootCmd.Flags().BoolVar(&validate, "validate", false, "Fail if any resolved config is invalid")
	rootCmd.Flags().BoolVar(&generateConfig, "generate-config", false, fmt.Sprintf("Generate a starter %s", config.DefaultConfigFile))
	rootCmd.Flags().BoolVar(&precommit, "precommit", false, "")
	_ = rootCmd.Flags().MarkHidden("precommit")

	rootCmd.MarkFlagsMutuallyExclusive("config", "pattern", "generate-config")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if pattern != "" && lang == "" {
		return errors.New(errors.ErrInvalidInput, "-e/--pattern requires -l/--lang")
	}

	settings, err := config.Load()
	if err != nil {
		return err
	}

	p, err := paths.New(paths.ContextFromEnv(precommit))
	if err != nil {
		return err
	}

	// Target paths are consumed by the matching engine; resolving them
	// against the base here keeps docker/CI handling in one place.
	if len(args) > 0 {
		log.Debug().Strs("targets", p.ResolveTargets(args)).Msg("Resolved scan targets")
	}

	if generateConfig {
		dest, usedFallback, err := resolver.GenerateConfig(settings, p)
		if err != nil {
			return err
		}
		if usedFallback {
			printInfo("There was a problem downloading the latest template config. Using fallback template")
		}
		printInfo(fmt.Sprintf("Template config successfully written to %s", dest))
		return nil
	}

	var configs resolver.ConfigSet
	if pattern != "" {
		configs = resolver.Manual(pattern, lang)
	} else {
		configs, err = resolver.New(settings, p).Resolve(configSpec)
		if err != nil {
			return err
		}
	}

	printSummary(configs)

	if validate && !configs.Valid() {
		invalid := configs.Invalid()
		sort.Strings(invalid)
		return errors.Newf(errors.ErrInvalidInput, "invalid configs: %v", invalid)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sgrep version %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Print a sample sgrep.toml with the built-in defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := config.GenerateSettingsContent()
		if err != nil {
			return err
		}
		fmt.Println(content)
		return nil
	},
}
