package container

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"eventhub/search/internal/catalog"
	"eventhub/search/internal/client"
	"eventhub/search/internal/config"
	"eventhub/search/internal/filterstate"
	"eventhub/search/internal/httpapi"
	"eventhub/search/internal/resolve"
	"eventhub/search/internal/search"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config  *config.Config
	Client  client.BackendClient
	Catalog catalog.ReferenceCatalog
	Engine  *search.Orchestrator

	redis  *redis.Client
	server *http.Server
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.Database,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Info("✅ Connected to Redis successfully")
	c.redis = rdb

	backendClient := client.NewBackendClient(cfg.Backend)
	c.Client = backendClient

	catalogTTL := time.Duration(cfg.Search.CatalogTTLSeconds) * time.Second
	refCatalog := catalog.NewService(backendClient, catalog.NewRedisCache(rdb), catalogTTL)
	c.Catalog = refCatalog

	persisted := filterstate.NewRedisStore(rdb, cfg.Search.SessionID)
	store := filterstate.NewStore()
	syncer := filterstate.NewSyncer(persisted, time.Duration(cfg.Search.DebounceMillis)*time.Millisecond)

	engine := search.New(search.Deps{
		PageSize:  cfg.Search.PageSize,
		Client:    backendClient,
		Catalog:   refCatalog,
		Resolver:  resolve.NewResolver(),
		Filters:   store,
		Syncer:    syncer,
		Persisted: persisted,
	})
	c.Engine = engine

	router := mux.NewRouter()
	httpapi.RegisterRoutes(router, engine, refCatalog)
	c.server = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	return c, nil
}

// Run starts the engine, the HTTP surface, and the periodic catalog refresh
func (c *Container) Run(ctx context.Context) error {
	if err := c.Engine.Start(ctx); err != nil {
		return fmt.Errorf("failed to start search engine: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Listening on %s", c.server.Addr)
		if err := c.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		interval := time.Duration(c.Config.Search.CatalogTTLSeconds) * time.Second / 2
		if interval <= 0 {
			interval = time.Minute
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := c.Catalog.Refresh(ctx); err != nil {
					log.Warnf("⚠️ Periodic catalog refresh incomplete: %v", err)
				}
				c.Engine.Revalidate()
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return c.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if err := c.redis.Close(); err != nil {
		return err
	}

	log.Info("Container shut down successfully")
	return nil
}
