package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/chrissnell/astrocalc/internal/almanac"
	"github.com/chrissnell/astrocalc/internal/controllers/restserver"
	"github.com/chrissnell/astrocalc/internal/geocode"
	"github.com/chrissnell/astrocalc/internal/log"
	"github.com/chrissnell/astrocalc/pkg/config"
	"github.com/chrissnell/astrocalc/pkg/ephemeris"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	provider := ephemeris.NewMeeusProvider(ephemeris.Options{
		SearchStep: a.cfg.Ephemeris.SearchStep,
		Tolerance:  a.cfg.Ephemeris.Tolerance,
	})
	alm := almanac.New(provider, a.logger)

	geocoder, err := a.newGeocoder()
	if err != nil {
		return err
	}

	ctrl, err := restserver.NewController(ctx, &wg, a.cfg, alm, geocoder, a.logger)
	if err != nil {
		return err
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}

// newGeocoder returns nil when location search is disabled.
func (a *App) newGeocoder() (geocode.Geocoder, error) {
	gc := a.cfg.Geocoder
	if !gc.Enabled {
		a.logger.Info("geocoder disabled; /search-location will not be served")
		return nil, nil
	}

	client, err := geocode.NewNominatimClient(geocode.Config{
		Endpoint:  gc.Endpoint,
		UserAgent: gc.UserAgent,
		Language:  gc.Language,
		Limit:     gc.Limit,
		Timeout:   gc.Timeout,
	}, a.logger)
	if err != nil {
		return nil, err
	}
	return client, nil
}
