package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/marqsync/marq/internal/config"
	"github.com/marqsync/marq/internal/feed"
	"github.com/marqsync/marq/internal/httpserver"
	"github.com/marqsync/marq/internal/httpserver/deps"
	"github.com/marqsync/marq/internal/logger"
	"github.com/marqsync/marq/internal/notifier"
	"github.com/marqsync/marq/internal/redisconn"
	"github.com/marqsync/marq/internal/session"
	"github.com/marqsync/marq/internal/store"
	"github.com/marqsync/marq/internal/store/memory"
	redisstore "github.com/marqsync/marq/internal/store/redis"
	"github.com/marqsync/marq/internal/sync"
	"github.com/marqsync/marq/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sessions    *sync.Registry
	hub         *notifier.Hub
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Backing store: Redis when configured (fail fast if unavailable),
	// in-memory otherwise. Without Redis there is no change feed either;
	// tab broadcasts stay as the only cross-session channel.
	var (
		redisClient *goredis.Client
		bookmarks   store.Store
		openFeed    sync.FeedOpener
	)
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redisconn.New(redisconn.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		bookmarks = redisstore.NewStore(client)
		openFeed = func(owner string, onReload func(), onStatus func(error)) io.Closer {
			sub := feed.NewSubscriber(client, owner, onReload, onStatus, loggerClient)
			sub.Start(context.Background())
			return sub
		}
		loggerClient.Info("Redis store initialized")
	} else {
		bookmarks = memory.NewStore()
		loggerClient.Warn("no redis configured, using in-memory store (dev mode)")
	}

	// Identity sessions: JWT verification against the provider's secret,
	// or a static dev session.
	var provider session.Provider
	if cfg.DevIdentity != "" {
		sp := session.NewStaticProvider()
		sp.Add("dev", cfg.DevIdentity)
		provider = sp
		loggerClient.Warn("dev identity enabled",
			logger.String("identity", cfg.DevIdentity))
	} else {
		provider = session.NewVerifier([]byte(cfg.SessionSecret), cfg.SessionIssuer, cfg.SessionAudience)
	}

	hub := notifier.NewHub()

	sessions := sync.NewRegistry(func() *sync.Core {
		return sync.NewCore(bookmarks, provider, hub, openFeed, loggerClient)
	})

	d := deps.Deps{
		Logger:      loggerClient,
		StartTime:   time.Now(),
		Version:     version.Version,
		Commit:      version.Commit,
		BuildDate:   version.BuildDate,
		GoVersion:   version.GoVersion,
		TimeNow:     time.Now,
		Sessions:    sessions,
		Hub:         hub,
		RedisClient: redisClient,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		sessions:    sessions,
		hub:         hub,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting marq v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("marq %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	// Release every session's subscription and tab channel before the
	// server stops accepting.
	a.sessions.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ marq stopped cleanly")
	return nil
}
