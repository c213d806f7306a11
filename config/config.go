package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	// InputPath is the positional JSON document argument.
	InputPath string `mapstructure:"-"`
	// ShowUsage prints the ledger totals instead of processing a document.
	ShowUsage bool `mapstructure:"-"`

	OutputDirectory string       `mapstructure:"output_directory"`
	Overwrite       bool         `mapstructure:"overwrite"`
	SkipInvalid     bool         `mapstructure:"skip_invalid"`
	Tts             TtsConfig    `mapstructure:"tts"`
	AWS             AWSConfig    `mapstructure:"aws"`
	Google          GoogleConfig `mapstructure:"google"`
	Ledger          LedgerConfig `mapstructure:"ledger"`
	Log             LogConfig    `mapstructure:"log"`
}

type TtsConfig struct {
	Provider string `mapstructure:"provider"` // "polly" or "google"
	Timeout  int    `mapstructure:"timeout"`  // seconds per request, 0 disables
}

type AWSConfig struct {
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"` // Optional, defaults to the SDK credential chain
}

type GoogleConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	Endpoint        string `mapstructure:"endpoint"`
}

type LedgerConfig struct {
	Path string `mapstructure:"path"` // empty disables the ledger
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ErrMissingInput is returned when no JSON document path was given.
var ErrMissingInput = errors.New("missing required argument jsonFilePath")

const usageHeader = `Converts a formatted JSON request into spoken text audio files

Usage: annunciator [flags] jsonFilePath

`

// Load resolves configuration from defaults, an optional config file, the
// environment and finally the command line, in increasing precedence.
// pflag.ErrHelp is returned untouched when -h/--help was requested.
func Load(args []string) (*Config, error) {
	v := viper.New()

	fs := pflag.NewFlagSet("annunciator", pflag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usageHeader)
		fs.PrintDefaults()
	}

	configFile := fs.String("config", "", "Path to a config file (default: ./annunciator.yaml when present)")
	fs.String("outputDirectory", ".", "Directory for outputting the completed files")
	fs.String("region", "us-east-1", "AWS processing region")
	fs.String("profile", "", "AWS shared config profile")
	fs.Bool("overwrite", false, "Overwrite existing files")
	noOverwrite := fs.Bool("no-overwrite", false, "Keep existing files (default)")
	fs.Bool("skip-invalid", false, "Skip announcements with missing fields instead of aborting")
	fs.String("provider", "polly", "Speech synthesis provider (polly, google)")
	fs.Int("timeout", 60, "Seconds allowed per synthesis request (0 disables)")
	fs.String("ledger", "", "SQLite file recording runs and produced files")
	fs.String("log-level", "info", "Log level (debug, info, warn, error)")
	showUsage := fs.Bool("usage", false, "Print totals from the ledger and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	bindings := map[string]string{
		"output_directory": "outputDirectory",
		"aws.region":       "region",
		"aws.profile":      "profile",
		"overwrite":        "overwrite",
		"skip_invalid":     "skip-invalid",
		"tts.provider":     "provider",
		"tts.timeout":      "timeout",
		"ledger.path":      "ledger",
		"log.level":        "log-level",
	}
	for key, flag := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(flag)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	// Set defaults
	v.SetDefault("output_directory", ".")
	v.SetDefault("overwrite", false)
	v.SetDefault("skip_invalid", false)
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.profile", "")
	v.SetDefault("tts.provider", "polly")
	v.SetDefault("tts.timeout", 60)
	v.SetDefault("google.credentials_file", "")
	v.SetDefault("google.endpoint", "")
	v.SetDefault("ledger.path", "")
	v.SetDefault("log.level", "info")

	// Allow environment variables
	v.SetEnvPrefix("ANNUNCIATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", *configFile, err)
		}
	} else {
		v.SetConfigName("annunciator")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, err
			}
			// Config file not found, use defaults
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if fs.Changed("no-overwrite") && *noOverwrite {
		cfg.Overwrite = false
	}
	cfg.ShowUsage = *showUsage
	cfg.InputPath = fs.Arg(0)

	if cfg.InputPath == "" && !cfg.ShowUsage {
		return nil, ErrMissingInput
	}
	if cfg.OutputDirectory == "" {
		cfg.OutputDirectory = "."
	}

	return &cfg, nil
}
