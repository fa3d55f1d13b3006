package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// fileConfig is the on-disk shape of ~/.rtmctl.yaml:
//
//	resource: TCPIP::10.0.0.17::5025::SOCKET
//	timeout: 30s
//	trace: /var/log/rtmctl.trace
type fileConfig struct {
	Resource string `yaml:"resource"`
	Timeout  string `yaml:"timeout"`
	Trace    string `yaml:"trace"`
}

// loadConfig fills flags the user left unset from the config file. A
// missing default file is fine; a missing file named with --config is
// an error.
func loadConfig(cmd *cobra.Command) error {
	path := configFile
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(home, ".rtmctl.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	flags := cmd.Root().PersistentFlags()
	if cfg.Resource != "" && !flags.Changed("resource") {
		resource = cfg.Resource
	}
	if cfg.Timeout != "" && !flags.Changed("timeout") {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		timeout = d
	}
	if cfg.Trace != "" && !flags.Changed("trace") {
		traceFile = cfg.Trace
	}
	return nil
}
