// Package ui  Setup for the FyGallery Application
package ui

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"runtime"
	"time"

	"fygallery/internal/config"
	"fygallery/internal/gallery"
	"fygallery/internal/prefs"
	"fygallery/internal/service"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// App represents the whole application with all its windows, widgets and functions
type App struct {
	app        fyne.App
	MainWin    fyne.Window
	mainModKey fyne.KeyModifier

	Service  *service.Service
	settings config.Settings
	ctl      *gallery.Controller

	slideshowInterval time.Duration

	loop gallery.Loop   // applies controller results on the UI thread
	run  gallery.Runner // starts blocking work from UI callbacks
	do   func(func())   // posts log lines and timer ticks to the UI thread

	logUIManager *LogUIManager
	thumbs       *ThumbnailManager
	grid         *gridView
	sorts        *sortBar
	search       *widget.Entry
	lightbox     *lightboxWindow
	gate         *likeGateDialog
}

var apiFlag = flag.String("api", "", "Gallery API base URL. Overrides "+config.EnvAPIURL+".")
var prefsFlag = flag.String("prefs", "", "Directory holding the preferences database. Overrides "+config.EnvPrefsDir+".")
var sequencedFlag = flag.Bool("sequenced", false, "Ignore image list responses older than the newest request.")
var slideshowIntervalFlag = flag.Float64("slideshow-interval", 3.0, "Slideshow image display interval in seconds. Min: 0.1.")

func (a *App) addLogMessage(message string) {
	if a.logUIManager == nil || a.do == nil {
		log.Printf("EarlyLog: %s", message)
		return
	}
	log.Println(message)
	a.do(func() { a.logUIManager.AddLogMessage(message) })
}

func (a *App) logf(format string, args ...interface{}) {
	a.addLogMessage(fmt.Sprintf(format, args...))
}

// activeWindow is the lightbox while it is showing, the main window otherwise.
func (a *App) activeWindow() fyne.Window {
	if a.lightbox != nil && a.lightbox.shown {
		return a.lightbox.win
	}
	return a.MainWin
}

// build creates the windows and the controller. loop and run decide how
// controller work is scheduled; tests pass a SerialLoop and InlineRunner.
func (a *App) build(svc *service.Service, settings config.Settings, loop gallery.Loop, run gallery.Runner) {
	a.Service = svc
	a.settings = settings
	a.loop = loop
	a.run = run

	a.app.Settings().SetTheme(NewGalleryTheme(a.app.Settings().Theme(), svc.Theme()))

	a.MainWin = a.app.NewWindow("FyGallery")
	a.MainWin.SetMaster()
	if runtime.GOOS == "darwin" {
		a.mainModKey = fyne.KeyModifierSuper
	} else {
		a.mainModKey = fyne.KeyModifierControl
	}
	a.logUIManager = NewLogUIManager(DefaultMaxLogMessages)
	a.thumbs = NewThumbnailManager(svc.Remote, svc.Images, loop.Do, a.addLogMessage)

	a.grid = newGridView(func(key string, action gallery.Action) {
		if err := a.ctl.Loader.Dispatch(key, action); err != nil {
			a.logf("Ignored %s on %s: %v", action, key, err)
		}
	}, a.thumbs)
	a.sorts = newSortBar(func(mode gallery.SortMode) { a.ctl.Filter.SortSelected(mode) })
	a.search = widget.NewEntry()
	a.search.SetPlaceHolder("Search by title or description")
	a.search.OnChanged = func(text string) { a.ctl.Filter.QueryChanged(text) }

	opts := settings.ControllerOptions()
	opts.Loop = loop
	opts.Runner = run
	opts.Escaper = gallery.MarkdownEscaper
	opts.Logger = a.addLogMessage
	opts.Share = []gallery.ShareStrategy{
		gallery.ClipboardShare{SetContent: func(s string) { a.MainWin.Clipboard().SetContent(s) }},
		gallery.LinkShare{Open: func(u *url.URL) error { return a.app.OpenURL(u) }},
	}

	// Widgets reach a.ctl only from callbacks, so they can exist first.
	a.lightbox = newLightboxWindow(a)
	a.gate = newLikeGateDialog(a)
	a.ctl = gallery.New(svc.Remote, svc.Favorites, gallery.Views{
		Gallery:  a.grid,
		Sort:     a.sorts,
		Lightbox: a.lightbox,
		Comments: a.lightbox,
		LikeGate: a.gate,
		Notifier: dialogNotifier{a},
	}, opts)

	a.MainWin.SetContent(a.buildMainUI())
	a.MainWin.SetMainMenu(a.buildMainMenu())
	a.buildKeyboardShortcuts()
	a.MainWin.SetCloseIntercept(func() {
		log.Println("Closing preferences database...")
		if err := svc.Close(); err != nil {
			log.Printf("Error closing preferences database: %v", err)
		}
		a.MainWin.Close()
	})
	a.MainWin.Resize(fyne.NewSize(1100, 800))
}

func (a *App) buildToolbar() fyne.CanvasObject {
	refresh := widget.NewButtonWithIcon("", theme.ViewRefreshIcon(), a.refresh)
	themeBtn := widget.NewButtonWithIcon("", theme.ColorPaletteIcon(), a.toggleTheme)
	return container.NewBorder(nil, nil, nil,
		container.NewHBox(a.sorts.box, refresh, themeBtn),
		a.search)
}

func (a *App) buildMainUI() fyne.CanvasObject {
	return container.NewBorder(
		a.buildToolbar(),
		a.logUIManager.Bar(),
		nil, nil,
		a.grid.content,
	)
}

func (a *App) buildMainMenu() *fyne.MainMenu {
	return fyne.NewMainMenu(
		fyne.NewMenu("File",
			fyne.NewMenuItem("Refresh", a.refresh),
		),
		fyne.NewMenu("View",
			fyne.NewMenuItem("Toggle Dark Mode", a.toggleTheme),
			fyne.NewMenuItem("Favorites", a.showFavorites),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Keyboard Shortcuts", a.showShortcuts),
			fyne.NewMenuItem("About", a.showAbout),
		),
	)
}

func (a *App) refresh() {
	a.run(func() { _ = a.ctl.Loader.Refresh(context.Background()) })
}

// toggleTheme flips and persists the light/dark preference.
func (a *App) toggleTheme() {
	next := toggledTheme(a.Service.Theme())
	if err := a.Service.SetTheme(next); err != nil {
		a.logf("Error saving theme: %v", err)
		return
	}
	a.app.Settings().SetTheme(NewGalleryTheme(a.app.Settings().Theme(), next))
	a.logf("Theme set to %s", next)
}

func (a *App) showFavorites() {
	records, err := a.Service.ListFavorites()
	if err != nil {
		a.logf("Error reading favorites: %v", err)
		return
	}
	list := widget.NewList(
		func() int { return len(records) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(fmt.Sprintf("#%d  %s", records[id].ID, records[id].Title))
		},
	)
	win := a.app.NewWindow("Favorites")
	if len(records) == 0 {
		win.SetContent(widget.NewLabel("No favorites yet"))
	} else {
		win.SetContent(list)
	}
	win.Resize(fyne.NewSize(360, 400))
	win.Show()
}

// CreateApplication is the main entry point for the desktop gallery.
func CreateApplication() {
	flag.Parse() // Parse command-line flags

	settings, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if *apiFlag != "" {
		settings.APIURL = *apiFlag
	}
	if *prefsFlag != "" {
		settings.PrefsDir = *prefsFlag
	}
	if *sequencedFlag {
		settings.Sequencing = true
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	fa := app.NewWithID("com.github.fygallery")
	interval := *slideshowIntervalFlag
	if interval < 0.1 {
		interval = 0.1
	}
	ui := &App{app: fa, do: fyne.Do, slideshowInterval: time.Duration(interval * float64(time.Second))}

	store, err := prefs.Open(settings.PrefsDir, ui.addLogMessage)
	if err != nil {
		log.Fatalf("Failed to open preferences: %v", err)
	}
	client, err := settings.NewClient(ui.addLogMessage)
	if err != nil {
		log.Fatalf("Failed to create API client: %v", err)
	}
	svc := service.NewService(client, store, ui.addLogMessage)

	ui.build(svc, settings, gallery.LoopFunc(fyne.Do), gallery.GoRunner)
	go func() {
		if err := ui.ctl.Start(context.Background()); err != nil {
			ui.logf("Initial load failed: %v", err)
		}
	}()

	ui.MainWin.CenterOnScreen()
	ui.MainWin.ShowAndRun()
}
