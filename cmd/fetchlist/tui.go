package main

import (
	"fmt"

	"fetchlist/internal/config"
	"fetchlist/internal/log"
	"fetchlist/internal/tui"
	"fetchlist/internal/tui/messages"
	"fetchlist/internal/tui/styles"
	"fetchlist/internal/watch"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type tuiOptions struct {
	watchConfig bool
	expand      bool
}

func (o *tuiOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&o.watchConfig, "watch-config", "w", false, "reload the endpoint when the config file changes")
	cmd.Flags().BoolVarP(&o.expand, "expand", "e", false, "start with every group expanded")
}

// NewTUICmd represents the TUI command
func NewTUICmd() *cobra.Command {
	var opts tuiOptions

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal user interface",
		Long:  `Start the interactive terminal view of the list. Press ? for key bindings.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
	}
	opts.bind(cmd)

	return cmd
}

func runTUI(opts tuiOptions) error {
	setupLogging(true)
	styles.Apply(cfg)

	client, store := newStore(cfg)
	defer store.Close()

	m := tui.New(store,
		tui.WithTitle(cfg.UI.Title),
		tui.WithExpandAll(opts.expand || cfg.UI.ExpandAll),
	)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if opts.watchConfig {
		w, err := watch.New(cfgPath,
			func(c *config.Config) {
				applyEndpoint(client, c)
				store.Refresh()
				p.Send(messages.ConfigReloadedMsg{Config: c})
			},
			watch.WithErrorHandler(func(err error) {
				p.Send(messages.ErrorMsg{Err: err})
			}),
		)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
	}

	log.LogWithFields(log.F("url", endpointOf(cfg))).Info("Starting terminal UI")
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func endpointOf(c *config.Config) string {
	u, err := c.ListURL()
	if err != nil {
		return c.Endpoint.BaseURL
	}
	return u
}
