package main

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bryanwahyu/devscreen/internal/application"
	"github.com/bryanwahyu/devscreen/internal/application/assessment"
	appscreenings "github.com/bryanwahyu/devscreen/internal/application/screenings"
	"github.com/bryanwahyu/devscreen/internal/application/videoanalysis"
	"github.com/bryanwahyu/devscreen/internal/config"
	"github.com/bryanwahyu/devscreen/internal/domain/questionnaire"
	"github.com/bryanwahyu/devscreen/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/devscreen/internal/infra/db/mysql"
	"github.com/bryanwahyu/devscreen/internal/infra/db/postgres"
	"github.com/bryanwahyu/devscreen/internal/infra/db/sqlite"
	"github.com/bryanwahyu/devscreen/internal/infra/db/sqlstore"
	"github.com/bryanwahyu/devscreen/internal/infra/storage"
)

// appEnv holds everything serve needs, built from config.
type appEnv struct {
	DB         *sql.DB
	Repo       *sqlstore.ScreeningRepository
	Store      *storage.Store
	Screenings *appscreenings.Service
}

func (e *appEnv) Close() {
	if e.DB != nil {
		_ = e.DB.Close()
	}
}

// openRepository connects the configured driver and returns its screening repository.
func openRepository(ctx context.Context, c *config.Config) (*sql.DB, *sqlstore.ScreeningRepository, error) {
	switch c.Store.Driver {
	case "mysql":
		db, err := mysqlp.Connect(ctx, c.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		return db, mysqlp.NewScreeningRepository(db), nil
	case "postgres":
		db, err := postgres.Connect(ctx, c.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, postgres.NewScreeningRepository(db), nil
	case "sqlite":
		db, err := sqlite.Open(ctx, c.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return db, sqlite.NewScreeningRepository(db), nil
	default:
		return nil, nil, eris.Errorf("unknown store driver %q", c.Store.Driver)
	}
}

func loadCatalog(c *config.Config) (*questionnaire.Catalog, error) {
	if c.Questionnaire.CatalogPath == "" {
		return questionnaire.DefaultCatalog(), nil
	}
	return questionnaire.LoadCatalogFile(c.Questionnaire.CatalogPath)
}

func initApp(ctx context.Context, c *config.Config) (*appEnv, error) {
	db, repo, err := openRepository(ctx, c)
	if err != nil {
		return nil, eris.Wrap(err, "open repository")
	}
	env := &appEnv{DB: db, Repo: repo}

	// pastikan tabel ada
	if err := repo.Migrate(ctx); err != nil {
		env.Close()
		return nil, eris.Wrap(err, "migrate")
	}

	catalog, err := loadCatalog(c)
	if err != nil {
		env.Close()
		return nil, eris.Wrap(err, "load questionnaire catalog")
	}

	resolver := &storage.Resolver{
		HTTP: storage.NewHTTPFetcher(
			time.Duration(c.Analysis.FetchTimeoutSecs)*time.Second,
			c.Analysis.MaxVideoBytes,
			c.Analysis.Cloudinary,
		),
	}
	if c.Minio.Enabled() {
		store, err := storage.New(ctx,
			c.Minio.Endpoint,
			c.Minio.Region,
			c.Minio.BucketName,
			c.Minio.AccessKey,
			c.Minio.SecretKey,
			c.Minio.UseSSL,
		)
		if err != nil {
			env.Close()
			return nil, eris.Wrap(err, "minio init")
		}
		store.MaxBytes = c.Analysis.MaxVideoBytes
		env.Store = store
		resolver.Objects = store
	}

	engine := &assessment.Engine{Catalog: catalog, Clock: application.SystemClock{}}
	if c.AI.APIKey != "" {
		analyzer := videoanalysis.NewService(resolver, openai.NewClient(c.AI.APIKey, c.AI.Model, c.AI.BaseURL, c.Analysis.Timeout()), c.Analysis.Timeout())
		analyzer.Concurrency = c.Analysis.Concurrency
		engine.Analyzer = analyzer
	} else {
		zap.L().Warn("ai.api_key not set; screenings will use the questionnaire only")
	}

	env.Screenings = &appscreenings.Service{
		Repo:    repo,
		Engine:  engine,
		Catalog: catalog,
		Clock:   application.SystemClock{},
	}
	return env, nil
}
