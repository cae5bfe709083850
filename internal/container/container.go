package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"gosurvey/adapters/sqlsource"
	"gosurvey/internal"
	"gosurvey/internal/config"
	"gosurvey/internal/dashboard"
	"gosurvey/internal/dataset"
	"gosurvey/internal/metrics"
	"gosurvey/internal/render"
)

const pingTimeout = 5 * time.Second

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Log    *internal.Logger

	// Infrastructure
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	DB       *sqlx.DB
	Repo     *sqlsource.Repository

	Loader    *dataset.Loader
	Renderer  *render.Renderer
	Content   *dashboard.Content
	Dashboard *dashboard.Dashboard
}

// New builds the dashboard and everything it needs. The sql backend prepares its connection pool here
// and only warns when the database does not answer.
func New(ctx context.Context, cfg *config.Config, log *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if log == nil {
		log = internal.DefaultLogger
	}

	c := &Container{
		Config:   cfg,
		Log:      log,
		Registry: prometheus.NewRegistry(),
	}
	c.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.Metrics = metrics.New(c.Registry)

	opts := []dataset.Option{
		dataset.WithLogger(log),
		dataset.WithMetrics(c.Metrics),
		dataset.WithTTL(cfg.Data.CacheTTL),
	}
	if cfg.Data.Backend == config.BackendSQL {
		if err := c.initDatabase(ctx); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		opts = append(opts, dataset.WithQueryRunner(c.Repo))
	}
	c.Loader = dataset.NewLoader(opts...)

	content, err := dashboard.LoadContent()
	if err != nil {
		c.close()
		return nil, fmt.Errorf("failed to load page content: %w", err)
	}
	c.Content = content
	c.Renderer = render.NewRenderer(render.DefaultTheme(), log)

	c.Dashboard = dashboard.New(c.Loader, dataset.Sources(cfg.Data), c.Renderer, c.Content,
		dashboard.WithAssetsDir(cfg.Assets.Dir),
		dashboard.WithLogger(log),
		dashboard.WithMetrics(c.Metrics),
	)

	log.Info("[Container] dashboard ready (backend=%s, assets=%s)", cfg.Data.Backend, cfg.Assets.Dir)
	return c, nil
}

// initDatabase prepares the pool used by the sql backend. An unreachable server is not an error here:
// queries fail with SOURCE_UNAVAILABLE until it answers, and the pages render their notices meanwhile.
func (c *Container) initDatabase(ctx context.Context) error {
	db, err := sqlsource.Dial(c.Config.Database.Driver, c.Config.Database.DSN())
	if err != nil {
		return err
	}
	c.DB = db
	c.Repo = sqlsource.NewRepository(db, c.Log)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		c.Log.Warn("[Container] %s database unreachable, sources report unavailable until it answers: %v",
			c.Config.Database.Driver, err)
		return nil
	}
	c.Log.Info("[Container] connected to %s database", c.Config.Database.Driver)
	return nil
}

// Gatherer returns the registry to expose on /metrics, or nil when metrics are off
func (c *Container) Gatherer() prometheus.Gatherer {
	if !c.Config.Metrics.Enabled {
		return nil
	}
	return c.Registry
}

func (c *Container) close() error {
	if c.Repo != nil {
		return c.Repo.Close()
	}
	return nil
}

// Shutdown releases the database connection, if any
func (c *Container) Shutdown(ctx context.Context) error {
	return c.close()
}
