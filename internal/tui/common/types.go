package common

import "fetchlist/internal/model"

type Mode int

const (
	Normal Mode = iota
	Search
)

// ModelReader defines the interface that views use to read model state
type ModelReader interface {
	Title() string
	State() model.ViewState
	Mode() Mode
	ShowHelp() bool
	StatusView() string
	SearchView() string
	TreeView() string
	HelpView() string
}
