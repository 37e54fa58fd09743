package views

import (
	"strings"

	"fetchlist/internal/model"
	"fetchlist/internal/tui/common"
	"fetchlist/internal/tui/styles"
)

// ErrorText is what the screen shows when the last cycle failed.
const ErrorText = "Error"

func RenderMainView(m common.ModelReader) string {
	var sb strings.Builder

	sb.WriteString(styles.Theme.Title.Render(m.Title()))
	sb.WriteString("\n")

	if status := m.StatusView(); status != "" {
		sb.WriteString(status + "\n")
	}
	if search := m.SearchView(); search != "" {
		sb.WriteString(search + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString(renderBody(m))

	sb.WriteString("\n" + m.HelpView())

	return styles.Theme.App.Render(sb.String())
}

func renderBody(m common.ModelReader) string {
	st := m.State()
	switch st.Phase {
	case model.PhaseError:
		return RenderError()
	case model.PhaseSuccess:
		if len(st.Items) == 0 {
			return styles.Theme.Muted.Render("The list is empty") + "\n"
		}
		return m.TreeView()
	default:
		return ""
	}
}

func RenderError() string {
	return styles.Theme.Error.Render(ErrorText) + "\n" +
		styles.Theme.Help.Render("Press r to try again") + "\n"
}
