package main

import (
	"fmt"
	"io"
	"os"

	"fetchlist/internal/config"
	"fetchlist/internal/fetch"
	"fetchlist/internal/log"
	"fetchlist/internal/state"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfgPath string
	cfg     *config.Config
	debug   bool
)

// NewRootCmd creates the root command. Without a subcommand it starts the
// terminal UI.
func NewRootCmd() *cobra.Command {
	var opts tuiOptions

	rootCmd := &cobra.Command{
		Use:   "fetchlist",
		Short: "Browse the Fetch hiring list grouped by list id",
		Long: `fetchlist downloads the hiring list, drops entries without a name,
sorts the rest by list id and item number, and shows them as collapsible
groups in a terminal UI, a desktop window, or as plain output.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/fetchlist/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	opts.bind(rootCmd)

	rootCmd.AddCommand(NewTUICmd())
	rootCmd.AddCommand(NewGUICmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// loadConfig reads the config file. A broken file is reported and replaced
// by the defaults so the list can still be shown.
func loadConfig(warn io.Writer) error {
	var err error
	if cfgFile != "" {
		cfgPath = cfgFile
		cfg, err = config.LoadConfigFile(cfgPath)
	} else {
		// The watcher still needs to know which file to follow
		if cfgPath, err = config.DefaultPath(); err != nil {
			return fmt.Errorf("error locating config file: %w", err)
		}
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		fmt.Fprintf(warn, "Warning: %v\n", err)
		fmt.Fprintln(warn, "Using default settings.")
		cfg = config.New()
	}
	return nil
}

// setupLogging configures the package logger. Interactive front ends own
// the terminal, so their logs only go to the configured file.
func setupLogging(interactive bool) {
	var opts []log.Option
	if interactive {
		opts = append(opts, log.WithOutput(io.Discard))
	} else {
		opts = append(opts, log.WithOutput(os.Stderr))
	}
	if cfg.Logging.JSON {
		opts = append(opts, log.WithJSON())
	}
	if cfg.Logging.File != "" {
		opts = append(opts, log.WithFile(cfg.Logging.File))
	}
	log.Configure(opts...)
	log.SetDebug(debug || cfg.Logging.Debug)
}

// newStore wires the fetcher for the configured endpoint into a store.
func newStore(c *config.Config) (*fetch.Client, *state.Store) {
	client := fetch.New(c.Endpoint.BaseURL, fetch.WithResource(c.Endpoint.Resource))
	return client, state.New(client)
}

// applyEndpoint points the client at a reloaded endpoint. The next cycle
// uses it.
func applyEndpoint(client *fetch.Client, c *config.Config) {
	client.SetBaseURL(c.Endpoint.BaseURL)
	client.SetResource(c.Endpoint.Resource)
}
