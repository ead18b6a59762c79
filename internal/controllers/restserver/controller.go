package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/chrissnell/astrocalc/internal/almanac"
	"github.com/chrissnell/astrocalc/internal/geocode"
	"github.com/chrissnell/astrocalc/pkg/config"
	"github.com/chrissnell/astrocalc/pkg/ephemeris"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Controller represents the REST server controller
type Controller struct {
	ctx            context.Context
	wg             *sync.WaitGroup
	serverConfig   config.ServerData
	observerConfig config.ObserverData
	Server         http.Server
	almanac        *almanac.Almanac
	geocoder       geocode.Geocoder
	logger         *zap.SugaredLogger
	handlers       *Handlers
}

// NewController creates a new REST server controller. A nil geocoder leaves
// /search-location unrouted.
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, alm *almanac.Almanac, geocoder geocode.Geocoder, logger *zap.SugaredLogger) (*Controller, error) {
	if alm == nil {
		return nil, fmt.Errorf("REST server requires an almanac")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctrl := &Controller{
		ctx:            ctx,
		wg:             wg,
		serverConfig:   cfg.Server,
		observerConfig: cfg.Observer,
		almanac:        alm,
		geocoder:       geocoder,
		logger:         logger,
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if ctrl.serverConfig.ListenAddr == "" {
		logger.Info("server.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		ctrl.serverConfig.ListenAddr = "0.0.0.0"
	}

	if ctrl.serverConfig.Port == 0 {
		logger.Infof("server.port not provided; defaulting to %d", config.DefaultPort)
		ctrl.serverConfig.Port = config.DefaultPort
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", ctrl.serverConfig.ListenAddr, ctrl.serverConfig.Port)
	ctrl.Server.Handler = ctrl.Handler()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server and shuts it down when the
// controller's context is cancelled.
func (c *Controller) StartController() error {
	c.logger.Info("Starting REST server controller...")
	c.wg.Add(2)

	go func() {
		defer c.wg.Done()

		c.logger.Infof("REST server listening on %s", c.Server.Addr)

		var err error
		if c.serverConfig.Cert != "" && c.serverConfig.Key != "" {
			err = c.Server.ListenAndServeTLS(c.serverConfig.Cert, c.serverConfig.Key)
		} else {
			err = c.Server.ListenAndServe()
		}

		if err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		c.logger.Info("Shutting down the REST server...")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := c.Server.Shutdown(ctx); err != nil {
			c.logger.Errorf("REST server shutdown: %v", err)
		}
	}()

	return nil
}

// Handler returns the complete HTTP handler: routes, access logging and CORS.
func (c *Controller) Handler() http.Handler {
	return c.corsHandler(c.setupRouter())
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.Use(c.loggingMiddleware)

	router.HandleFunc("/", c.handlers.Root).Methods(http.MethodGet)
	router.HandleFunc("/astro-data", c.handlers.GetAstroData).Methods(http.MethodGet)

	// Location search is only routed when a geocoder is configured.
	if c.geocoder != nil {
		router.HandleFunc("/search-location", c.handlers.SearchLocation).Methods(http.MethodGet)
	}

	router.NotFoundHandler = c.loggingMiddleware(http.HandlerFunc(c.handlers.NotFound))
	router.MethodNotAllowedHandler = c.loggingMiddleware(http.HandlerFunc(c.handlers.MethodNotAllowed))

	return router
}

// defaultObserver builds an observer at lat/lon with the configured
// elevation, pressure and horizon dip.
func (c *Controller) defaultObserver(lat, lon float64) ephemeris.Observer {
	obs := ephemeris.NewObserver(lat, lon)
	obs.Elevation = c.observerConfig.Elevation
	obs.Pressure = c.observerConfig.Pressure
	obs.HorizonDip = c.observerConfig.HorizonDipArcmin / 60
	return obs
}
