package app

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/nicolaskelepuris/refactor-rails-app/internal/auth"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/cache"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/config"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/notify"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/repo"
	"github.com/nicolaskelepuris/refactor-rails-app/internal/service"
	"github.com/nicolaskelepuris/refactor-rails-app/migrations"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
)

type App struct {
	cfg    config.Config
	pg     *pgxpool.Pool
	sqlite *sql.DB
	redis  *redis.Client
	queue  *notify.Queue
	router *gin.Engine
}

func New(cfg config.Config) (_ *App, err error) {
	a := &App{cfg: cfg}
	defer func() {
		if err != nil {
			err = multierr.Append(err, a.Close(context.Background()))
		}
	}()

	todoRepo, userRepo, err := a.openStores()
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled() {
		rdb, err := NewRedis(cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.redis = rdb
	}

	handler := notify.NewHandler(notify.NewLogMailer(slog.Default()), cfg.Mail.From)
	var pub notify.Publisher = notify.NewDirectPublisher(handler)
	var todoCache service.ListCache
	var tokenCache *auth.TokenCache
	if a.redis != nil {
		pub = notify.NewStreamPublisher(a.redis, cfg.Mail.Stream)
		todoCache = cache.NewTodoCache(a.redis, cfg.Redis.DefaultTTL.Duration())
		tokenCache = auth.NewTokenCache(a.redis, cfg.Redis.TokenTTL.Duration())
	}
	a.queue = notify.NewQueue(pub, cfg.Mail.QueueSize)

	users := service.NewUserService(userRepo, a.queue)
	a.router = newRouter(cfg, Services{
		Todos:  service.NewTodoService(todoRepo, todoCache),
		Users:  users,
		Tokens: auth.NewResolver(users, tokenCache),
	})
	return a, nil
}

var _ service.ListCache = (*cache.TodoCache)(nil)

func (a *App) Router() *gin.Engine {
	return a.router
}

// Close drains queued notifications and releases every connection.
func (a *App) Close(ctx context.Context) error {
	var err error
	if a.queue != nil {
		err = multierr.Append(err, a.queue.Close(ctx))
	}
	if a.redis != nil {
		err = multierr.Append(err, a.redis.Close())
	}
	if a.sqlite != nil {
		err = multierr.Append(err, a.sqlite.Close())
	}
	if a.pg != nil {
		a.pg.Close()
	}
	return err
}

func (a *App) openStores() (repo.TodoRepo, repo.UserRepo, error) {
	switch a.cfg.DB.Driver {
	case config.DriverSQLite:
		db, err := repo.OpenSQLite(a.cfg.DB.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		a.sqlite = db
		return repo.NewSQLiteTodoRepo(db), repo.NewSQLiteUserRepo(db), nil
	default:
		pool, err := newPostgres(a.cfg.DB.DSN)
		if err != nil {
			return nil, nil, err
		}
		a.pg = pool
		if err := runMigrations(pool, a.cfg.DB.MigrationsDir); err != nil {
			return nil, nil, err
		}
		return repo.NewPGTodoRepo(pool), repo.NewPGUserRepo(pool), nil
	}
}

// Migrate applies the embedded Postgres migrations. SQLite databases carry
// their schema in the store and need no migration step.
func Migrate(cfg config.Config) error {
	if cfg.DB.Driver == config.DriverSQLite {
		db, err := repo.OpenSQLite(cfg.DB.SQLitePath)
		if err != nil {
			return err
		}
		return db.Close()
	}
	pool, err := newPostgres(cfg.DB.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	return runMigrations(pool, cfg.DB.MigrationsDir)
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

// NewRedis connects and pings the configured Redis server.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(redisOptions(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func redisOptions(cfg config.RedisConfig) *redis.Options {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		host, _, err := net.SplitHostPort(cfg.Addr)
		if err != nil {
			host = cfg.Addr
		}
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}
	return opts
}

func runMigrations(pool *pgxpool.Pool, dir string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	var fsys fs.FS = migrations.FS
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, s Services) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "WWW-Authenticate"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, s)
	return r
}
