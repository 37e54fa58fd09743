//go:build !nogui

package gui

import (
	"fetchlist/internal/config"
	"fetchlist/internal/state"
)

// StartGUI opens the main window and blocks until it is closed. ready, when
// non-nil, receives the app before the event loop starts.
func StartGUI(cfg *config.Config, store *state.Store, ready func(*App)) error {
	a := NewApp(cfg, store)
	if ready != nil {
		ready(a)
	}
	a.Run()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}
