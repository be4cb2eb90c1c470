package cli

import (
	"context"
	"fmt"
	"runtime"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"

	"barcode-batcher/internal/controllers"
	"barcode-batcher/internal/generator"
	"barcode-batcher/internal/logger"
	"barcode-batcher/internal/models"
	"barcode-batcher/internal/render"
	"barcode-batcher/internal/services"
	"barcode-batcher/internal/shutdown"
	"barcode-batcher/internal/views"
	"barcode-batcher/internal/views/components"
)

// AppID identifies the application to Fyne preferences and storage.
const AppID = "com.barcodebatcher.app"

// Application holds the GUI object graph
type Application struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  logger.Logger

	controller *controllers.MainController
	view       *views.MainView

	repository *models.BarcodeRepository
	thumbnails *services.ThumbnailService
	shutdown   *shutdown.Manager
}

func runGUI(ctx context.Context, env *environment, version string) error {
	application := NewApplication(env, version)
	return application.Run(ctx)
}

// NewApplication builds models, services, controller and view and wires them together
func NewApplication(env *environment, version string) *Application {
	fyneApp := app.NewWithID(AppID)
	fyneApp.SetMetadata(&fyne.AppMetadata{
		ID:      AppID,
		Name:    AppName,
		Version: version,
	})

	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(1000, 760))
	window.CenterOnScreen()

	cfg := env.cfg
	env.log.Info("Application", "application starting", map[string]interface{}{
		"version":    version,
		"go_version": runtime.Version(),
		"symbology":  cfg.Symbology().String(),
		"codes":      len(env.codes),
	})

	repository := models.NewBarcodeRepository()
	stateRepo := models.NewGenerationStateRepository()

	renderer := render.NewBarcodeRenderer(render.Options{
		Width:   cfg.Render.Width,
		Height:  cfg.Render.Height,
		Caption: cfg.Render.Caption,
	})
	gen := generator.New(renderer, generator.WithLogger(env.log))

	thumbnails := services.NewThumbnailService(cfg.Preview.ThumbnailSize, env.log)
	generation := services.NewGenerationService(gen, repository, stateRepo, thumbnails, env.log)
	export := services.NewExportService(repository, env.log)

	controller := controllers.NewMainController(generation, export, repository, controllers.Settings{
		RangeA:         cfg.Generation.RangeA.DigitRange(),
		RangeB:         cfg.Generation.RangeB.DigitRange(),
		MaxCount:       cfg.Generation.MaxCount,
		ReferenceCodes: env.codes,
	}, env.log)

	symbologies := make([]string, 0, len(models.Symbologies()))
	for _, s := range models.Symbologies() {
		symbologies = append(symbologies, s.String())
	}
	view := views.NewMainView(window, views.Options{
		Thumbnails: thumbnails,
		Columns:    cfg.Preview.Columns,
		Form: components.FormDefaults{
			Symbologies: symbologies,
			Symbology:   cfg.Symbology().String(),
			Prefix:      cfg.Export.Prefix,
			Directory:   cfg.Export.Directory,
		},
	})
	controller.SetMainView(view)

	manager := shutdown.NewManager(env.log)
	manager.Register("repository", repository)
	manager.Register("thumbnails", shutdown.Func(thumbnails.Clear))
	manager.Register("controller", controller)

	application := &Application{
		fyneApp:    fyneApp,
		window:     window,
		logger:     env.log,
		controller: controller,
		view:       view,
		repository: repository,
		thumbnails: thumbnails,
		shutdown:   manager,
	}
	application.setupWindowEvents()
	return application
}

// Run shows the window and blocks until the Fyne event loop exits
func (a *Application) Run(ctx context.Context) error {
	a.shutdown.Listen(func() {
		fyne.Do(a.fyneApp.Quit)
	})

	if ctx != nil {
		go func() {
			select {
			case <-ctx.Done():
				a.shutdown.Shutdown()
				fyne.Do(a.fyneApp.Quit)
			case <-a.shutdown.Done():
			}
		}()
	}

	a.logger.Info("Application", "showing main window", nil)
	a.window.ShowAndRun()

	a.shutdown.Shutdown()
	a.logger.Info("Application", "application stopped", nil)
	return nil
}

func (a *Application) setupWindowEvents() {
	a.window.SetCloseIntercept(func() {
		if a.repository.Len() == 0 {
			a.quit()
			return
		}
		dialog.ShowConfirm("Exit", fmt.Sprintf("Discard %d unsaved barcodes and exit?", a.repository.Len()),
			func(confirmed bool) {
				if confirmed {
					a.quit()
				}
			}, a.window)
	})
}

func (a *Application) quit() {
	a.logger.Info("Application", "window close requested", nil)
	a.shutdown.Shutdown()
	a.window.Close()
}
