// Package config assembles the provisioning run settings. Sources, lowest
// precedence first: built-in defaults, .env, GENESIS_* environment
// variables, an optional YAML file, explicitly set command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/katringoogoo/byteball-genesis/internal/fault"
)

// EnvPrefix prefixes every environment variable, e.g. GENESIS_WITNESS_COUNT.
// Unprefixed names are never consulted.
const EnvPrefix = "GENESIS"

// Config holds one run's settings.
type Config struct {
	StagingFolder   string        `split_words:"true" yaml:"staging_folder"`
	WitnessCount    int           `split_words:"true" yaml:"witness_count"`
	NetworkVersion  string        `split_words:"true" yaml:"network_version"`
	MainHub         string        `split_words:"true" yaml:"main_hub"`
	CreationMessage string        `split_words:"true" yaml:"creation_message"`
	Verbose         bool          `split_words:"true" yaml:"verbose"`
	WorkDir         string        `split_words:"true" yaml:"work_dir"`
	WalletTool      string        `split_words:"true" yaml:"wallet_tool"`
	NetworkTool     string        `split_words:"true" yaml:"network_tool"`
	Jobs            int           `split_words:"true" yaml:"jobs"`
	ToolTimeout     time.Duration `split_words:"true" yaml:"tool_timeout"`
	CopyAppData     bool          `split_words:"true" yaml:"copy_appdata"`
	Publish         bool          `split_words:"true" yaml:"publish"`
}

// Flag names.
const (
	FlagConfig          = "config"
	FlagWitnessCount    = "witness-count"
	FlagStagingFolder   = "staging-folder"
	FlagNetworkVersion  = "network-version"
	FlagMainHub         = "main-hub"
	FlagCreationMessage = "creation-message"
	FlagVerbose         = "verbose"
	FlagWorkDir         = "work-dir"
	FlagWalletTool      = "wallet-tool"
	FlagNetworkTool     = "network-tool"
	FlagJobs            = "jobs"
	FlagToolTimeout     = "tool-timeout"
	FlagCopyAppData     = "copy-appdata"
	FlagPublish         = "publish"
)

// Defaults returns the built-in settings, ignoring the environment. It is
// the only place defaults are defined; every other source overlays it.
func Defaults() Config {
	return Config{
		StagingFolder:   "../docker-images/_staging",
		WitnessCount:    1,
		NetworkVersion:  "1.0t",
		MainHub:         "example.org/bb",
		CreationMessage: "Yvan eht Nioj!",
		WorkDir:         ".",
		WalletTool:      "node _generate_wallet_config.js",
		NetworkTool:     "node generate_genesis_unit.js",
		Jobs:            1,
	}
}

// RegisterFlags adds the provisioning flags to fs. Flag defaults are shown
// in help only; unset flags never override other sources.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String(FlagConfig, "", "YAML file with run settings")
	fs.IntP(FlagWitnessCount, "w", d.WitnessCount, "Count of witnesses to generate")
	fs.StringP(FlagStagingFolder, "s", d.StagingFolder, "Folder collecting all generated artifacts (wiped first)")
	fs.String(FlagNetworkVersion, d.NetworkVersion, "Network version tag")
	fs.StringP(FlagMainHub, "m", d.MainHub, "Main hub, the initial peer")
	fs.String(FlagCreationMessage, d.CreationMessage, "Message embedded in the genesis input")
	fs.BoolP(FlagVerbose, "v", false, "Enable debug logging")
	fs.String(FlagWorkDir, d.WorkDir, "Directory the external tools run in")
	fs.String(FlagWalletTool, d.WalletTool, "Wallet generator command")
	fs.String(FlagNetworkTool, d.NetworkTool, "Genesis unit / network config generator command")
	fs.Int(FlagJobs, d.Jobs, "Witness wallets generated concurrently")
	fs.Duration(FlagToolTimeout, 0, "Kill an external tool after this long (0 waits forever)")
	fs.Bool(FlagCopyAppData, false, "Copy wallet appdata into staging instead of moving it")
	fs.Bool(FlagPublish, false, "Publish the genesis unit after generating the network config")
}

// Load resolves the settings. fs may be nil; otherwise the flags registered
// by RegisterFlags that were set on the command line take precedence.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	// unset variables leave the defaults in place
	cfg := Defaults()
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fault.New(fault.Config, "environment", err)
	}

	if fs != nil {
		if path, _ := fs.GetString(FlagConfig); path != "" {
			if err := cfg.mergeFile(path); err != nil {
				return nil, err
			}
		}
		if err := cfg.mergeFlags(fs); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFile reads YAML settings at path over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fault.New(fault.Config, "read "+path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fault.New(fault.Config, "unmarshal "+path, err)
	}
	return nil
}

func (c *Config) mergeFlags(fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case FlagWitnessCount:
			c.WitnessCount, err = fs.GetInt(f.Name)
		case FlagStagingFolder:
			c.StagingFolder, err = fs.GetString(f.Name)
		case FlagNetworkVersion:
			c.NetworkVersion, err = fs.GetString(f.Name)
		case FlagMainHub:
			c.MainHub, err = fs.GetString(f.Name)
		case FlagCreationMessage:
			c.CreationMessage, err = fs.GetString(f.Name)
		case FlagVerbose:
			c.Verbose, err = fs.GetBool(f.Name)
		case FlagWorkDir:
			c.WorkDir, err = fs.GetString(f.Name)
		case FlagWalletTool:
			c.WalletTool, err = fs.GetString(f.Name)
		case FlagNetworkTool:
			c.NetworkTool, err = fs.GetString(f.Name)
		case FlagJobs:
			c.Jobs, err = fs.GetInt(f.Name)
		case FlagToolTimeout:
			c.ToolTimeout, err = fs.GetDuration(f.Name)
		case FlagCopyAppData:
			c.CopyAppData, err = fs.GetBool(f.Name)
		case FlagPublish:
			c.Publish, err = fs.GetBool(f.Name)
		}
	})
	if err != nil {
		return fault.New(fault.Config, "flags", err)
	}
	return nil
}

// Validate rejects settings no run can start with.
func (c *Config) Validate() error {
	var errs []error
	if c.StagingFolder == "" {
		errs = append(errs, errors.New("staging folder is empty"))
	}
	if c.WitnessCount < 0 {
		errs = append(errs, fmt.Errorf("witness count %d is negative", c.WitnessCount))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs %d must be at least 1", c.Jobs))
	}
	if c.ToolTimeout < 0 {
		errs = append(errs, fmt.Errorf("tool timeout %s is negative", c.ToolTimeout))
	}
	if c.WalletTool == "" {
		errs = append(errs, errors.New("wallet tool command is empty"))
	}
	if c.NetworkTool == "" {
		errs = append(errs, errors.New("network tool command is empty"))
	}
	if len(errs) > 0 {
		return fault.New(fault.Config, "validate", errors.Join(errs...))
	}
	return nil
}
