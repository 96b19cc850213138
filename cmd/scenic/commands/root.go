// Package commands implements the scenic CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"scenic/bridge"
	"scenic/viewer"
)

// Config is the yaml config file layout.
type Config struct {
	Server viewer.Config `yaml:"server"`
	Mqtt   bridge.Config `yaml:"mqtt"`
}

var configPath string

func Execute() error {
	root := &cobra.Command{
		Use:           "scenic",
		Short:         "Browser-hosted 3D viewer driven over a local WebSocket",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	root.AddCommand(serveCmd(), demoCmd())
	return root.Execute()
}

// readConfig loads the yaml config, or returns defaults when no file was
// given.
func readConfig() (Config, error) {
	config := Config{Server: viewer.DefaultConfig()}
	if configPath == "" {
		return config, nil
	}

	f, err := os.Open(configPath)
	if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return config, fmt.Errorf("parse config %s: %w", configPath, err)
	}
	if config.Server.Host == "" {
		config.Server.Host = viewer.DefaultConfig().Host
	}
	if config.Server.Port == 0 {
		config.Server.Port = viewer.DefaultConfig().Port
	}
	return config, nil
}
