package app

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net"
	"time"

	"github.com/birlikkoshan/todo-tracker/internal/config"
	"github.com/birlikkoshan/todo-tracker/internal/logging"
	"github.com/birlikkoshan/todo-tracker/internal/repo"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type App struct {
	cfg    config.Config
	log    logging.Logger
	pool   *pgxpool.Pool
	db     *sql.DB
	redis  *redis.Client
	router *gin.Engine
}

func New(ctx context.Context, cfg config.Config, log logging.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	deps := Deps{Config: cfg, Log: log}
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		users := repo.NewMemoryUserRepo()
		deps.Users = users
		deps.Todos = repo.NewMemoryTodoRepo(users)
		log.Warn(ctx, "using in-memory store, data is lost on restart")
	default:
		pool, db, err := OpenPostgres(ctx, cfg.PG.DSN)
		if err != nil {
			return nil, err
		}
		a.pool, a.db = pool, db
		if cfg.Store.MigrateOnStart {
			if err := Migrate(ctx, db, MigrateUp); err != nil {
				_ = a.Close(ctx)
				return nil, err
			}
		}
		deps.Users = repo.NewPGUserRepo(db)
		deps.Todos = repo.NewPGTodoRepo(db)
	}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		a.redis = rdb
		deps.Redis = rdb
	} else {
		log.Warn(ctx, "redis not configured, list cache and rate limiting disabled")
	}

	a.router = newRouter(deps)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.pool != nil {
		a.pool.Close()
	}
	return nil
}

// OpenPostgres connects a pgx pool and wraps it as a *sql.DB for the
// repositories and goose. Closing the *sql.DB does not close the pool.
func OpenPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, *sql.DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("pg connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, stdlib.OpenDBFromPool(pool), nil
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	opt := &redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opt.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: hostOnly(cfg.Addr)}
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func hostOnly(addr string) string {
	if h, _, err := net.SplitHostPort(addr); err == nil {
		return h
	}
	return addr
}

func newRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(d.Log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.Config.HTTP.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: !allowsAnyOrigin(d.Config.HTTP.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	Setup(r, d)
	return r
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
