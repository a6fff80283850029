package app

import (
	"context"
	"fmt"
	"runtime"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/jonboulle/clockwork"

	"preview-editor/internal/codec"
	"preview-editor/internal/config"
	"preview-editor/internal/gui"
	"preview-editor/internal/logger"
	"preview-editor/internal/operations"
	"preview-editor/internal/opencv"
	"preview-editor/internal/services"
	"preview-editor/internal/shutdown"
	"preview-editor/internal/sources"
	"preview-editor/internal/timing"
	"preview-editor/internal/viewmodels"
	"preview-editor/internal/views"
)

const (
	AppName    = "Preview Editor"
	AppID      = "io.github.preview-editor"
	AppVersion = "1.0.0"
)

type Application struct {
	cfg     *config.Config
	logger  logger.Logger
	clock   clockwork.Clock
	fyneApp fyne.App
	window  fyne.Window

	canvas   *gui.Canvas
	service  *services.ImageService
	watcher  *sources.Watcher
	screen   *views.Screen
	loop     *FrameLoop
	timings  *timing.Tracker
	shutdown *shutdown.Manager
}

// NewApplication wires the editor on a new fyne application.
func NewApplication(cfg *config.Config, log logger.Logger) (*Application, error) {
	return newApplication(fyneapp.NewWithID(AppID), cfg, log, clockwork.NewRealClock(), fyne.Do)
}

func newApplication(fyneApp fyne.App, cfg *config.Config, log logger.Logger, clock clockwork.Clock, dispatch Dispatch) (*Application, error) {
	registry := operations.DefaultRegistry()
	if err := opencv.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register opencv transforms: %w", err)
	}

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(cfg.WindowWidth, cfg.WindowHeight))
	window.CenterOnScreen()
	window.SetMaster()

	a := &Application{
		cfg:      cfg,
		logger:   log,
		clock:    clock,
		fyneApp:  fyneApp,
		window:   window,
		canvas:   gui.NewCanvas(window),
		timings:  timing.NewTracker(clock),
		shutdown: shutdown.NewManager(log, clock, shutdown.DefaultTimeout),
	}

	a.service = services.NewImageService(services.Options{
		DropStaleLoads: cfg.DropStaleLoads,
		Logger:         log,
		Timings:        a.timings,
		OnLoaded:       a.watchLoaded,
	})
	a.shutdown.Register("timing summary", shutdown.Func(func() {
		log.Info("Application", "timing summary", a.timings.Summary())
	}))
	a.shutdown.Register("image service", a.service)

	if cfg.WatchSource {
		watcher, err := sources.NewWatcher(clock, cfg.WatchDebounce, a.service.LoadNewImage, log)
		if err != nil {
			a.service.Shutdown()
			return nil, err
		}
		a.watcher = watcher
		a.shutdown.Register("source watcher", watcher)
	}

	picker := sources.NewFynePicker(window, codec.SupportedExtensions(), cfg.StartDirectory, log)
	capacity := cfg.NotificationCapacity

	top := views.NewTopPanel(viewmodels.NewTopPanel(a.service, registry, capacity), picker)
	current := views.NewImageFrame(
		viewmodels.NewImageFrame("Current", true, a.service, a.service.Current(), capacity),
		picker, cfg.FrameWidth)
	preview := views.NewImageFrame(
		viewmodels.NewImageFrame("Preview", false, a.service, a.service.Preview(), capacity),
		picker, cfg.FrameWidth)

	a.screen = views.NewScreen(
		views.TopPanelOf(top),
		views.CentralPanelOf(views.NewCentralPanel(views.ImageFrameOf(current), views.ImageFrameOf(preview))),
	)

	a.loop = NewFrameLoop(clock, cfg.FrameInterval(), dispatch, a.Frame, log)
	a.shutdown.Register("frame loop", a.loop)

	window.SetOnClosed(a.shutdown.Shutdown)

	log.Info("Application", "application initialized", map[string]interface{}{
		"version":          AppVersion,
		"transforms":       len(registry.All()),
		"frame_rate":       cfg.FrameRate,
		"drop_stale_loads": cfg.DropStaleLoads,
		"watch_source":     cfg.WatchSource,
		"go_version":       runtime.Version(),
	})

	return a, nil
}

// Frame is one render tick: apply finished loads, then redraw every view.
func (a *Application) Frame() {
	defer a.timings.Start(timing.Frame)()

	a.service.Update()
	a.canvas.BeginFrame()
	a.screen.Show(a.canvas)
	a.canvas.EndFrame()
}

// Open starts loading a local file, as if it had been picked.
func (a *Application) Open(path string) {
	a.service.LoadNewImage(sources.NewFileHandle(path))
}

func (a *Application) watchLoaded(h sources.Handle) {
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Watch(h); err != nil {
		a.logger.Warning("Application", "cannot watch source", map[string]interface{}{
			"source": h.Name(),
			"error":  err.Error(),
		})
	}
}

// Start begins the background work: the frame loop and, if enabled, the watcher.
func (a *Application) Start(ctx context.Context) {
	if a.watcher != nil {
		go a.watcher.Run(ctx)
	}
	a.loop.Start(ctx)

	if a.cfg.Open != "" {
		a.Open(a.cfg.Open)
	}
}

// Run shows the window and blocks until the application quits.
func (a *Application) Run(ctx context.Context) error {
	a.shutdown.Listen(func() { fyne.Do(a.fyneApp.Quit) })
	a.Start(a.shutdown.Context())

	go func() {
		select {
		case <-ctx.Done():
			a.logger.Info("Application", "context cancelled, quitting", nil)
			a.shutdown.Shutdown()
			fyne.Do(a.fyneApp.Quit)
		case <-a.shutdown.Done():
		}
	}()

	a.window.ShowAndRun()
	a.shutdown.Shutdown()
	return nil
}

func (a *Application) Shutdown() {
	a.shutdown.Shutdown()
}

// Timings exposes the operation durations recorded so far.
func (a *Application) Timings() *timing.Tracker { return a.timings }

// Service exposes the edit session, mainly for tests.
func (a *Application) Service() *services.ImageService { return a.service }
