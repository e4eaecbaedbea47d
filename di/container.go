package di

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"grid-forecast/api"
	"grid-forecast/api/neso"
	"grid-forecast/config"
	"grid-forecast/dao/blob"
	"grid-forecast/db"
	"grid-forecast/forecast"
	"grid-forecast/metrics"
	"grid-forecast/server"
	"grid-forecast/server/handlers"
	services "grid-forecast/service"
)

// Container holds all application dependencies.
type Container struct {
	Config             *config.Config
	Logger             *logrus.Logger
	BlobClient         db.BlobClient
	ForecastDAO        *blob.ForecastDAO
	Metrics            *metrics.Metrics
	DemandDataAPI      neso.DemandDataAPI
	ForecastService    *services.ForecastService
	IngestService      *services.IngestService
	DashboardService   *services.DashboardService
	ForecastHandler    *handlers.ForecastHandler
	DashboardHandler   *handlers.DashboardHandler
	MuxRouter          *mux.Router
	Router             *server.Router
	GridForecastServer *server.GridForecastHttpServer

	closers []func() error
}

// NewContainer initializes and wires up all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	logger.WithFields(logrus.Fields{
		"env":     cfg.Environment,
		"storage": cfg.Storage.Backend,
	}).Info("[Container] Initializing container")

	c := &Container{Config: cfg, Logger: logger}

	blobClient, err := c.newBlobClient(ctx)
	if err != nil {
		return nil, err
	}
	c.BlobClient = blobClient

	c.ForecastDAO = blob.NewForecastDAO(blobClient, cfg.Keys, logger)
	c.Metrics = metrics.New()

	httpClient := api.NewHTTPClientWithTimeout(cfg.Ingest.SourceURL, time.Duration(cfg.Ingest.TimeoutSeconds)*time.Second)
	c.DemandDataAPI = neso.NewDemandDataClient(httpClient)

	opts := forecast.Options{HorizonSteps: cfg.Forecast.HorizonSteps, StepMinutes: cfg.Forecast.StepMinutes}
	c.ForecastService = services.NewForecastService(c.ForecastDAO, c.Metrics, opts, logger)
	c.IngestService = services.NewIngestService(c.ForecastDAO, c.DemandDataAPI, c.Metrics, logger)
	c.DashboardService = services.NewDashboardService(c.ForecastDAO, c.Metrics, cfg.Dashboard, logger)

	c.ForecastHandler = handlers.NewForecastHandler(c.ForecastDAO, c.ForecastService, logger)
	c.DashboardHandler = handlers.NewDashboardHandler(c.DashboardService, logger)

	c.MuxRouter = mux.NewRouter()
	c.Router = server.NewRouter(c.ForecastHandler, c.DashboardHandler, c.Metrics.Handler(), c.MuxRouter)
	c.GridForecastServer = server.NewGridForecastHttpServer(c.Router, c.MuxRouter, cfg.Server.Port, logger)

	return c, nil
}

func (c *Container) newBlobClient(ctx context.Context) (db.BlobClient, error) {
	cfg := c.Config
	var client db.BlobClient

	switch cfg.Storage.Backend {
	case config.STORAGE_BACKEND_REDIS:
		redisInternalClient := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		c.closers = append(c.closers, redisInternalClient.Close)
		client = db.NewRedisBlobClient(redisInternalClient, cfg.Storage.Container)
	case config.STORAGE_BACKEND_MINIO:
		minioClient, err := db.NewMinioBlobClient(
			cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Storage.Container, cfg.Minio.UseSSL)
		if err != nil {
			return nil, err
		}
		client = minioClient
	case config.STORAGE_BACKEND_MEMORY:
		c.Logger.Warn("[Container] Using in-memory blob store; nothing will be persisted")
		client = db.NewMockBlobClient()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	if err := client.Ping(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to connect to %s blob store: %w", cfg.Storage.Backend, err)
	}
	return client, nil
}

// Close releases connections opened by the container.
func (c *Container) Close() {
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			c.Logger.WithError(err).Warn("[Container] Error closing resource")
		}
	}
	c.closers = nil
}
