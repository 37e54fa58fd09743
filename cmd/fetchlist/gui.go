package main

import (
	"fetchlist/internal/config"
	"fetchlist/internal/errors"
	"fetchlist/internal/gui"
	"fetchlist/internal/log"
	"fetchlist/internal/watch"

	"github.com/spf13/cobra"
)

// NewGUICmd creates the GUI command for the CLI
func NewGUICmd() *cobra.Command {
	var watchConfig bool

	cmd := &cobra.Command{
		Use:   "gui",
		Short: "Launch the graphical user interface",
		Long:  `Show the list in a desktop window with one collapsible section per list id.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !gui.IsGUIAvailable() {
				return errors.New("GUI not available in this build")
			}
			return runGUI(watchConfig)
		},
	}
	cmd.Flags().BoolVarP(&watchConfig, "watch-config", "w", false, "reload the endpoint when the config file changes")

	return cmd
}

func runGUI(watchConfig bool) error {
	setupLogging(false)

	client, store := newStore(cfg)
	defer store.Close()

	var w *watch.Watcher
	defer func() {
		if w != nil {
			w.Stop()
		}
	}()

	log.LogWithFields(log.F("url", endpointOf(cfg))).Info("Starting GUI")
	return gui.StartGUI(cfg, store, func(a *gui.App) {
		if !watchConfig {
			return
		}
		var err error
		w, err = watch.New(cfgPath,
			func(c *config.Config) {
				applyEndpoint(client, c)
				a.ApplyConfig(c)
				store.Refresh()
			},
			watch.WithErrorHandler(func(err error) {
				a.ShowError("Configuration not reloaded", err)
			}),
		)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			log.LogWithError(err).Warn("Config watching disabled")
			w = nil
		}
	})
}
