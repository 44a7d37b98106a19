package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marqsync/marq/internal/logger"
	"github.com/marqsync/marq/internal/notifier"
	"github.com/marqsync/marq/internal/sync"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Sessions    *sync.Registry // credential -> synchronization core
	Hub         *notifier.Hub  // cross-session change notifications
	RedisClient *redis.Client  // nil in dev mode (in-memory store, no feed)
}
