//go:build nogui

package gui

import (
	"fmt"

	"fetchlist/internal/config"
	"fetchlist/internal/errors"
	"fetchlist/internal/state"
)

// App is a placeholder for builds with the GUI disabled
type App struct{}

// StartGUI is a stub implementation for builds with GUI disabled
func StartGUI(cfg *config.Config, store *state.Store, ready func(*App)) error {
	fmt.Println("GUI is disabled in this build. Please use the tui or list commands.")
	return errors.New("GUI not available in this build")
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return false
}

// ApplyConfig does nothing without a GUI
func (a *App) ApplyConfig(cfg *config.Config) {}

// ShowError prints the error (stub implementation)
func (a *App) ShowError(title string, err error) {
	fmt.Printf("[%s] %v\n", title, err)
}

// ShowInfo prints the message (stub implementation)
func (a *App) ShowInfo(message string) {
	fmt.Println(message)
}

// Run does nothing without a GUI
func (a *App) Run() {}
