package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"
)

var (
	// Store the result of binding cobra flags
	Config string
	Debug  bool

	// ConfigActual is the resolved (homedir-expanded) config path.
	ConfigActual string

	Token  string
	OutDir string

	ParsedConfig YamlConfig
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "quip-dump",
	Short: "Export Quip folders to local Markdown",
	Long: `
Have you ever wanted to use local tools, like fuzzy-search, on your Quip documents?  Wish no more,
this tool will export a Quip folder (or all of them) to local Markdown files, images included,
skipping documents that haven't changed since the last run.
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// You can bind cobra and viper in a few locations, but PersistentPreRunE on the root command works well
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("quip-dump: failed to initialise config: %w", err)
		}
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: ~/.config/quip-dump.yaml, respects QUIP_DUMP_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringVar(&Token, "token", "", "Quip Personal Access Token (falls back to QUIP_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&OutDir, "out", "", "output directory (falls back to QUIP_OUT, then ~/Documents/QuipNotes)")
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := Config != ""
	if !explicit {
		// Did the user provide an ENV?
		envConfig := os.Getenv("QUIP_DUMP_CONFIG")
		if envConfig != "" {
			Config = envConfig
			explicit = true
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = "~/.config/quip-dump.yaml"
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("quip-dump: unable to expand homedir: %w", err)
	}
	ConfigActual = config

	if _, err := os.Stat(ConfigActual); errors.Is(err, os.ErrNotExist) {
		if explicit {
			return fmt.Errorf("quip-dump: specified config file does not exist: %w", err)
		}
		// No config file is fine; flags and env vars have to carry the day.
		return nil
	}

	yamlFile, err := os.ReadFile(ConfigActual)
	if err != nil {
		return fmt.Errorf("quip-dump: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a flag we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("quip-dump: issue parsing config file: %w", err)
	}

	// Bind the current command's flags to the parsed config
	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("quip-dump: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	All               *bool `yaml:"all"`
	NoRecursive       *bool `yaml:"no-recursive"`
	MaintainStructure *bool `yaml:"maintain-structure"`
	AlwaysDownload    *bool `yaml:"always-download"`
	IncludeArchived   *bool `yaml:"include-archived"`
	WithVCR           *bool `yaml:"with-vcr"`

	Token    string `yaml:"token"`
	OutDir   string `yaml:"out"`
	FolderID string `yaml:"folder-id"`
}

// Bind each cobra flag to its associated config file entry
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("quip-dump: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// hmm... the flag is unknown.  but that can legitimately happen if you're running
			// e.g. `list folders` which has no `maintain-structure` flag but your YAML file does
			// define that flag...
			continue
		}
		if !cmd.Flags().Changed(key) {
			switch field.Kind() {
			case reflect.Ptr:
				// err, this is crappy, but i know YamlConfig only uses pointers for bools.....
				b, ok := field.Value().(*bool)
				if !ok {
					return fmt.Errorf("quip-dump: found unrecognised field: %+v", field)
				}
				if b != nil {
					cmd.Flags().Set(key, fmt.Sprintf("%v", *b))
				}

			case reflect.String:
				s, ok := field.Value().(string)
				if !ok {
					return fmt.Errorf("quip-dump: found unrecognised field: %+v", field)
				}
				if s != "" {
					cmd.Flags().Set(key, s)
				}

			default:
				return fmt.Errorf("quip-dump: found unrecognised field: %+v", field)
			}
		}
	}

	return nil
}

// resolveToken applies the flag-then-env precedence for the required
// credential.
func resolveToken() (string, error) {
	if Token != "" {
		return Token, nil
	}
	if env := os.Getenv("QUIP_TOKEN"); env != "" {
		return env, nil
	}
	return "", fmt.Errorf("quip-dump: no auth token; set QUIP_TOKEN or pass --token")
}

// resolveOutDir applies flag-then-env-then-default precedence for the output
// directory, homedir-expanded.
func resolveOutDir() (string, error) {
	out := OutDir
	if out == "" {
		out = os.Getenv("QUIP_OUT")
	}
	if out == "" {
		out = "~/Documents/QuipNotes"
	}

	expanded, err := homedir.Expand(out)
	if err != nil {
		return "", fmt.Errorf("quip-dump: unable to expand homedir: %w", err)
	}
	return expanded, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Flags are only available after (or inside, presumably) the .Execute() thing.
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("quip-dump: execution error: %w", err)
	}

	return nil
}
