package messages

import (
	"fetchlist/internal/config"
	"fetchlist/internal/model"
)

// StateMsg carries a state published by the store.
type StateMsg struct {
	State model.ViewState
}

// StoreClosedMsg is sent once the store subscription ends.
type StoreClosedMsg struct{}

type ErrorMsg struct {
	Err error
}

// ConfigReloadedMsg is sent after the config file changed on disk and the
// new endpoint took effect.
type ConfigReloadedMsg struct {
	Config *config.Config
}
