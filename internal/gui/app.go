//go:build !nogui

package gui

import (
	"fmt"
	"sync"

	"fetchlist/internal/config"
	"fetchlist/internal/listview"
	"fetchlist/internal/log"
	"fetchlist/internal/model"
	"fetchlist/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// App is the desktop front end of the list screen. It renders whatever the
// store publishes and forwards refresh requests; it never writes state.
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	store      *state.Store
	sub        *state.Subscription

	title     *widget.Label
	status    *widget.Label
	progress  *widget.ProgressBarInfinite
	loading   *fyne.Container
	errorBox  *fyne.Container
	retry     *widget.Button
	accordion *widget.Accordion
	listView  *container.Scroll
	empty     *widget.Label

	mu      sync.Mutex
	current model.ViewState
	open    *listview.Expansion
	once    sync.Once
}

// NewApp creates the GUI application
func NewApp(cfg *config.Config, store *state.Store) *App {
	return newApp(app.NewWithID("io.github.fetchlist"), cfg, store)
}

func newApp(fyneApp fyne.App, cfg *config.Config, store *state.Store) *App {
	a := &App{
		fyneApp: fyneApp,
		cfg:     cfg,
		store:   store,
		current: model.Loading(),
		open:    listview.NewExpansion(cfg.UI.ExpandAll),
	}
	a.mainWindow = fyneApp.NewWindow(cfg.UI.Title)
	a.setupMainWindow()
	a.sub = store.Subscribe()
	return a
}

// Window returns the main window
func (a *App) Window() fyne.Window {
	return a.mainWindow
}

// Run shows the window and blocks until it is closed
func (a *App) Run() {
	a.Start()
	a.mainWindow.ShowAndRun()
	a.sub.Close()
}

// Start begins rendering published states and triggers the first cycle.
func (a *App) Start() {
	a.once.Do(func() {
		go a.listen()
		a.store.Start()
	})
}

func (a *App) listen() {
	for st := range a.sub.C() {
		a.Render(st)
	}
	log.Debug("gui subscription closed")
}

func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(480, 640))

	a.title = widget.NewLabelWithStyle(a.cfg.UI.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	a.status = widget.NewLabel("")

	a.progress = widget.NewProgressBarInfinite()
	a.loading = container.NewVBox(layout.NewSpacer(), a.progress, layout.NewSpacer())

	a.retry = widget.NewButtonWithIcon("Retry", theme.ViewRefreshIcon(), a.store.Refresh)
	a.errorBox = container.NewCenter(container.NewVBox(
		widget.NewLabelWithStyle("Error", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		a.retry,
	))

	a.accordion = widget.NewAccordion()
	a.accordion.MultiOpen = true
	a.listView = container.NewVScroll(a.accordion)

	a.empty = widget.NewLabelWithStyle("The list is empty", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ViewRefreshIcon(), a.store.Refresh),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ZoomInIcon(), a.expandAll),
		widget.NewToolbarAction(theme.ZoomOutIcon(), a.collapseAll),
		widget.NewToolbarSpacer(),
		widget.NewToolbarAction(theme.InfoIcon(), func() {
			a.ShowInfo(fmt.Sprintf("Source: %s", a.endpoint()))
		}),
	)

	header := container.NewVBox(container.NewBorder(nil, nil, a.title, nil, toolbar), a.status, widget.NewSeparator())
	body := container.NewStack(a.loading, a.errorBox, a.listView, a.empty)
	a.mainWindow.SetContent(container.NewBorder(header, nil, nil, nil, body))

	a.showOnly(a.loading)
}

func (a *App) endpoint() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	u, err := a.cfg.ListURL()
	if err != nil {
		return err.Error()
	}
	return u
}

// showOnly makes one body panel visible and hides the rest.
func (a *App) showOnly(panel fyne.CanvasObject) {
	for _, obj := range []fyne.CanvasObject{a.loading, a.errorBox, a.listView, a.empty} {
		if obj == panel {
			obj.Show()
		} else {
			obj.Hide()
		}
	}
	if panel == a.loading {
		a.progress.Start()
	} else {
		a.progress.Stop()
	}
}

// Render updates the window for one published state.
func (a *App) Render(st model.ViewState) {
	a.mu.Lock()
	a.current = st
	a.mu.Unlock()

	switch st.Phase {
	case model.PhaseLoading:
		a.status.SetText("Loading...")
		a.showOnly(a.loading)
	case model.PhaseError:
		a.status.SetText("")
		a.showOnly(a.errorBox)
	case model.PhaseSuccess:
		groups := listview.GroupByListID(st.Items)
		a.status.SetText(fmt.Sprintf("%d groups, %d items", len(groups), len(st.Items)))
		if len(groups) == 0 {
			a.showOnly(a.empty)
			return
		}
		a.rebuildAccordion(groups)
		a.showOnly(a.listView)
	}
}

func (a *App) rebuildAccordion(groups []listview.Group) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Remember what the user opened before replacing the items
	for _, item := range a.accordion.Items {
		var listID int
		if _, err := fmt.Sscanf(item.Title, listview.HeaderFormat, &listID); err == nil {
			a.open.Set(listID, item.Open)
		}
	}

	items := make([]*widget.AccordionItem, 0, len(groups))
	for _, g := range groups {
		rows := container.NewVBox()
		for _, it := range g.Items {
			rows.Add(widget.NewLabel(fmt.Sprintf("%s  (id %d)", it.NameOrEmpty(), it.ID)))
		}
		item := widget.NewAccordionItem(g.Header(), rows)
		item.Open = a.open.IsOpen(g.ListID)
		items = append(items, item)
	}
	a.accordion.Items = items
	a.accordion.Refresh()
}

func (a *App) expandAll() {
	a.mu.Lock()
	a.open.ExpandAll()
	a.mu.Unlock()
	a.accordion.OpenAll()
}

func (a *App) collapseAll() {
	a.mu.Lock()
	a.open.CollapseAll()
	a.mu.Unlock()
	a.accordion.CloseAll()
}

// Current returns the last rendered state
func (a *App) Current() model.ViewState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

// ApplyConfig updates the window after a configuration reload.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()

	a.title.SetText(cfg.UI.Title)
	a.mainWindow.SetTitle(cfg.UI.Title)
	a.ShowNotification("Configuration reloaded", "Fetching "+a.endpoint())
}

// ShowError displays an error dialog
func (a *App) ShowError(title string, err error) {
	log.LogWithError(err).Error(title)
	dialog.ShowError(err, a.mainWindow)
}

// ShowInfo displays an information dialog
func (a *App) ShowInfo(message string) {
	dialog.ShowInformation("Information", message, a.mainWindow)
}

// ShowNotification sends a desktop notification
func (a *App) ShowNotification(title, content string) {
	a.fyneApp.SendNotification(fyne.NewNotification(title, content))
}
