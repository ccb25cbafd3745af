package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/estatehub/internal/application"
	appactivity "github.com/bryanwahyu/estatehub/internal/application/activity"
	appauth "github.com/bryanwahyu/estatehub/internal/application/auth"
	appenquiries "github.com/bryanwahyu/estatehub/internal/application/enquiries"
	appinvest "github.com/bryanwahyu/estatehub/internal/application/investment"
	appprops "github.com/bryanwahyu/estatehub/internal/application/properties"
	appusers "github.com/bryanwahyu/estatehub/internal/application/users"
	"github.com/bryanwahyu/estatehub/internal/config"
	"github.com/bryanwahyu/estatehub/internal/domain/activity"
	"github.com/bryanwahyu/estatehub/internal/domain/enquiries"
	"github.com/bryanwahyu/estatehub/internal/domain/investment"
	"github.com/bryanwahyu/estatehub/internal/domain/properties"
	"github.com/bryanwahyu/estatehub/internal/domain/users"
	aiopenai "github.com/bryanwahyu/estatehub/internal/infra/ai/openai"
	"github.com/bryanwahyu/estatehub/internal/infra/cache"
	"github.com/bryanwahyu/estatehub/internal/infra/db/mysql"
	"github.com/bryanwahyu/estatehub/internal/infra/db/postgres"
	"github.com/bryanwahyu/estatehub/internal/infra/db/sqlite"
	"github.com/bryanwahyu/estatehub/internal/infra/httpserver"
	"github.com/bryanwahyu/estatehub/internal/infra/scheduler"
	"github.com/bryanwahyu/estatehub/internal/infra/security"
	minioStore "github.com/bryanwahyu/estatehub/internal/infra/storage"
	"github.com/bryanwahyu/estatehub/internal/middleware"
)

// store is the driver-independent set of repositories.
type store struct {
	users     users.Repository
	props     properties.Repository
	saved     properties.SavedRepository
	enquiries enquiries.Repository
	analyses  investment.Repository
	activity  activity.Repository
}

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	zc.Level = level
	return zc.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	clock := application.SystemClock{}
	act := appactivity.NewService(st.activity, clock, logger)
	hasher := security.Bcrypt{Cost: cfg.Auth.BcryptCost}
	tokens := security.NewJWT(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	health := middleware.NewHealth(middleware.Dependency{
		Name: "database", Critical: true, Checker: &middleware.DatabaseHealthChecker{DB: db},
	})

	propsSvc := &appprops.Service{
		Repo:     st.props,
		Saved:    st.saved,
		Cache:    cache.Noop{},
		Activity: act,
		Clock:    clock,
		Log:      logger,
	}

	// optional integrations; left nil when not configured so the services report them as unavailable
	if cfg.MinioEnabled() {
		images, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.PublicURL,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("minio init: %w", err)
		}
		propsSvc.Images = images
		health.Add(middleware.Dependency{Name: "storage", Checker: middleware.CheckFunc(images.Ping)})
	} else {
		logger.Warn("minio not configured, image uploads disabled")
	}

	if cfg.OpenAI.APIKey != "" {
		oc := goopenai.DefaultConfig(cfg.OpenAI.APIKey)
		if cfg.OpenAI.BaseURL != "" {
			oc.BaseURL = cfg.OpenAI.BaseURL
		}
		propsSvc.Writer = aiopenai.NewClientWithConfig(oc, cfg.OpenAI.Model)
	} else {
		logger.Warn("openai not configured, listing descriptions disabled")
	}

	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.StatsTTL)
		defer rc.Close()
		propsSvc.Cache = rc
		health.Add(middleware.Dependency{Name: "redis", Checker: middleware.CheckFunc(rc.Ping)})
	}

	handler := httpserver.NewRouter(httpserver.Deps{
		Auth:        &appauth.Service{Users: st.users, Hasher: hasher, Tokens: tokens, Activity: act, Clock: clock},
		Users:       &appusers.Service{Repo: st.users, Hasher: hasher, Activity: act, Clock: clock},
		Properties:  propsSvc,
		Enquiries:   &appenquiries.Service{Repo: st.enquiries, Properties: st.props, Activity: act, Clock: clock},
		Investments: &appinvest.Service{Repo: st.analyses, Activity: act, Clock: clock},
		Activity:    act,
		Tokens:      tokens,
		Metrics:     middleware.NewMetrics(),
		Health:      health,
		CORSOrigins: cfg.Server.CORSOrigins,
		Log:         logger,
	})

	sched := scheduler.NewScheduler(ctx, act, cfg.Retention(), logger)
	if err := sched.RegisterAll(cfg.Jobs.ActivityPurgeCron); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", zap.String("addr", addr), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sched.Start()
		<-gctx.Done()
		sched.Stop()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore connects to the configured driver, migrates it and returns its repositories.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sql.DB, store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN(), cfg.Database.MaxWait, logger)
		if err != nil {
			return nil, store{}, fmt.Errorf("postgres connect: %w", err)
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, store{}, err
		}
		r := postgres.NewRepositories(db)
		return db, store{r.Users, r.Properties, r.Saved, r.Enquiries, r.Analyses, r.Activity}, nil

	case "mysql":
		db, err := mysql.Connect(ctx, cfg.MySQLDSN(), cfg.Database.MaxWait, logger)
		if err != nil {
			return nil, store{}, fmt.Errorf("mysql connect: %w", err)
		}
		if err := mysql.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, store{}, err
		}
		r := mysql.NewRepositories(db)
		return db, store{r.Users, r.Properties, r.Saved, r.Enquiries, r.Analyses, r.Activity}, nil

	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			return nil, store{}, err
		}
		if err := sqlite.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, store{}, err
		}
		r := sqlite.NewRepositories(db)
		return db, store{r.Users, r.Properties, r.Saved, r.Enquiries, r.Analyses, r.Activity}, nil
	}
	return nil, store{}, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}
