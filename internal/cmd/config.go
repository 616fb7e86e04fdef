package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/courtdesk/internal/config"
	"github.com/felixgeelhaar/courtdesk/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and write the configuration",
	Long: `Inspect and write the courtdesk configuration.

Settings are read from $HOME/.courtdesk/config.yaml (or --config), then from
a .env file in the working directory, then from COURTDESK_* environment
variables, then from global flags. Later sources win.`,
}

var configViewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigView,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to the config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing file")

	configCmd.AddCommand(configViewCmd, configPathCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func configFile() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := configFile()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := configFile()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return errors.New(errors.ErrCodeConfigRead, "config file already exists: "+path).
			WithSuggestion("Pass --force to overwrite it")
	}

	// An explicit --config that does not exist yet is the target, not a source.
	cfg := config.Default()
	if configPath == "" {
		if cfg, err = loadConfig(cmd); err != nil {
			return err
		}
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
