package app

import (
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"github.com/rs/zerolog"

	"tickdown/internal/audio"
	"tickdown/internal/config"
	"tickdown/internal/events"
	"tickdown/internal/gui"
	"tickdown/internal/logger"
	"tickdown/internal/shutdown"
	"tickdown/internal/storage"
	"tickdown/internal/timer"
)

const (
	AppName    = "Tickdown"
	AppID      = "com.tickdown.timer"
	AppVersion = "1.0.0"

	eventBufferSize = 64
)

type Application struct {
	fyneApp    fyne.App
	window     fyne.Window
	log        logger.Logger
	cfg        *config.Manager
	database   *storage.Database
	engine     *timer.Engine
	player     *audio.Player
	bus        *events.Bus
	guiManager *gui.Manager
	handlers   *Handlers
	monitor    *Monitor
	shutdowner *shutdown.Manager
}

func NewApplication() (*Application, error) {
	log := newLogger()

	cfgManager, err := config.NewManager(log)
	if err != nil {
		return nil, err
	}
	cfg := cfgManager.Config()

	fyneApp := fyneapp.NewWithID(AppID)
	gui.ApplyVariant(fyneApp, cfg.App.DarkMode)

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(float32(cfg.App.WindowWidth), float32(cfg.App.WindowHeight)))
	window.CenterOnScreen()
	window.SetMaster()

	log.Info("Application", "starting application", map[string]interface{}{
		"version":       AppVersion,
		"config_path":   cfgManager.Path(),
		"window_width":  cfg.App.WindowWidth,
		"window_height": cfg.App.WindowHeight,
	})

	database, err := storage.NewDatabase(cfgManager.DatabasePath(), log)
	if err != nil {
		return nil, err
	}

	engine := timer.NewEngine(cfg.Timer.DefaultDuration.Std(), log, timer.Options{
		TickInterval: cfg.Timer.TickInterval.Std(),
		RingTimeout:  cfg.Timer.RingTimeout.Std(),
	})

	player := audio.NewPlayer(log)
	player.Configure(cfg.Alarm.Enabled, cfg.Alarm.SoundPath, cfg.Alarm.Volume)

	bus := events.NewBus(eventBufferSize, log)
	guiManager := gui.NewManager(window, log)
	monitor := NewMonitor(log)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		log:        log,
		cfg:        cfgManager,
		database:   database,
		engine:     engine,
		player:     player,
		bus:        bus,
		guiManager: guiManager,
		monitor:    monitor,
		shutdowner: shutdown.NewManager(log),
	}

	application.setupHandlers()
	application.setupShutdown()
	application.setupConfigWatch()

	log.Info("Application", "initialization complete", nil)
	return application, nil
}

func (a *Application) setupHandlers() {
	handlers := NewHandlers(a.engine, a.player, a.database, a.bus, a.cfg, a.guiManager, a.log)

	a.guiManager.SetPrimaryHandler(handlers.HandlePrimary)
	a.guiManager.SetResetHandler(handlers.HandleReset)
	a.guiManager.SetEditHandler(handlers.HandleEdit)
	a.guiManager.SetPresetSelectHandler(handlers.HandlePresetSelect)
	a.guiManager.SetPresetSaveHandler(handlers.HandlePresetSave)
	a.guiManager.SetPresetDeleteHandler(handlers.HandlePresetDelete)
	a.guiManager.SetHistoryClearHandler(handlers.HandleHistoryClear)
	a.guiManager.SetHistoryOpenedHandler(handlers.HandleHistoryOpened)
	a.guiManager.SetDigitHandler(handlers.HandleDigit)
	a.guiManager.SetBackspaceHandler(handlers.HandleBackspace)
	a.guiManager.SetEscapeHandler(handlers.HandleEscape)
	a.guiManager.SetReturnHandler(handlers.HandleReturn)
	a.guiManager.SetSpaceHandler(handlers.HandleSpace)

	a.engine.SetTickHandler(handlers.HandleTick)
	a.engine.SetStateHandler(handlers.HandleStateChange)
	a.engine.SetFinishHandler(handlers.HandleFinish)

	handlers.SubscribeEvents()
	a.handlers = handlers
}

// setupShutdown registers components in dependency order. Shutdown runs
// in reverse, so the engine stops emitting before its consumers close
// and the Fyne loop quits last.
func (a *Application) setupShutdown() {
	a.shutdowner.Register("fyne", shutdown.Func(func() {
		fyne.Do(a.fyneApp.Quit)
	}))
	a.shutdowner.Register("gui", a.guiManager)
	a.shutdowner.Register("config", shutdown.Func(func() {
		if err := a.cfg.Close(); err != nil {
			a.log.Error("Application", err, map[string]interface{}{
				"component": "config",
			})
		}
	}))
	a.shutdowner.Register("database", shutdown.Func(func() {
		if err := a.database.Close(); err != nil {
			a.log.Error("Application", err, map[string]interface{}{
				"component": "database",
			})
		}
	}))
	a.shutdowner.Register("monitor", a.monitor)
	a.shutdowner.Register("events", a.bus)
	a.shutdowner.Register("audio", shutdown.Func(a.player.Close))
	a.shutdowner.Register("engine", a.engine)

	a.shutdowner.Listen()
}

// setupConfigWatch reloads alarm and timer settings when the config
// file changes on disk. Watching is best effort.
func (a *Application) setupConfigWatch() {
	if err := a.cfg.Watch(a.handlers.HandleConfigReload); err != nil {
		a.log.Warning("Application", "config watch unavailable", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (a *Application) Run() error {
	a.window.SetCloseIntercept(func() {
		a.log.Info("Application", "shutdown requested", nil)
		a.shutdowner.Shutdown()
	})

	a.window.SetContent(a.guiManager.GetMainContainer())
	a.guiManager.ShowStopped(timer.FormatDuration(a.engine.Snapshot().Total))

	go a.handlers.RefreshPresets()
	go a.handlers.RefreshHistory()

	a.monitor.Start()
	a.window.Show()

	a.log.Info("Application", "GUI displayed", nil)
	a.fyneApp.Run()

	return nil
}

func newLogger() logger.Logger {
	level := zerolog.InfoLevel
	if os.Getenv("TICKDOWN_DEBUG") == "true" {
		level = zerolog.DebugLevel
	}

	if os.Getenv("TICKDOWN_JSON_LOGS") == "true" {
		return logger.NewZerolog(os.Stderr, level)
	}
	return logger.NewConsoleLogger(level)
}
