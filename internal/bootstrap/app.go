package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"redrose-ai/internal/ai"
	"redrose-ai/internal/app"
	"redrose-ai/internal/cache"
	"redrose-ai/internal/config"
	"redrose-ai/internal/pkg/logx"
	mysqlClient "redrose-ai/internal/platform/mysql"
	rabbitmqClient "redrose-ai/internal/platform/rabbitmq"
	redisClient "redrose-ai/internal/platform/redis"
	"redrose-ai/internal/repository"
	"redrose-ai/internal/worker"
)

// App holds the process-wide resources. Redis and RabbitMQ are optional: when
// disabled or unreachable the history cache and activity stream are skipped.
type App struct {
	Config         *config.Config
	Logger         *zap.Logger
	MySQL          *gorm.DB
	Redis          *redis.Client
	MQConn         *amqp.Connection
	ActivityWorker *worker.ActivityWorker

	Completer    app.Completer
	HistoryCache app.HistoryCache
	Publisher    app.ActivityPublisher

	StartedAt time.Time

	mu      sync.Mutex
	closers []func()
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	logger, err := logx.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("init logger failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlClient.Migrate(mysqlDB); err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		MySQL:     mysqlDB,
		StartedAt: time.Now(),
	}

	backend := ai.NewBackend(cfg.Inference.Provider, cfg.Inference.URL, cfg.Inference.APIKey, cfg.Inference.Model, ai.SamplingParams{
		Temperature: cfg.Inference.Temperature,
		MaxLength:   cfg.Inference.MaxLength,
	})
	a.Completer = ai.NewGateway(backend, time.Duration(cfg.Inference.TimeoutSeconds)*time.Second, logger.Named("inference"))
	logger.Info("inference backend ready", zap.String("provider", backend.Name()), zap.String("url", cfg.Inference.URL))

	if cfg.Redis.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("redis unavailable, history cache disabled", zap.Error(err))
		} else {
			a.Redis = redisCli
			a.HistoryCache = cache.NewHistoryCache(
				redisCli,
				time.Duration(cfg.Redis.HistoryTTLSeconds)*time.Second,
				time.Duration(cfg.Redis.DirtyTTLSeconds)*time.Second,
			)
		}
	}

	if cfg.RabbitMQ.Enabled {
		if err := a.startActivityStream(ctx); err != nil {
			logger.Warn("rabbitmq unavailable, activity stream disabled", zap.Error(err))
		}
	}

	return a, nil
}

func (a *App) startActivityStream(ctx context.Context) error {
	queue := a.Config.RabbitMQ.ActivityQueue
	mqConn, err := rabbitmqClient.New(a.Config.RabbitMQ.URL, queue)
	if err != nil {
		return err
	}

	activityWorker := worker.NewActivityWorker(mqConn, repository.NewActivityRepository(a.MySQL), queue, a.Logger.Named("activity"))
	if err := activityWorker.Start(ctx); err != nil {
		_ = mqConn.Close()
		return fmt.Errorf("start activity worker failed: %w", err)
	}

	a.MQConn = mqConn
	a.ActivityWorker = activityWorker
	a.Publisher = rabbitmqClient.NewActivityPublisher(mqConn, queue)
	return nil
}

// AddCloser registers fn to run on Close before the shared clients shut down.
func (a *App) AddCloser(fn func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, fn)
}

func (a *App) Close() error {
	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()
	for _, fn := range closers {
		fn()
	}

	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ActivityWorker != nil {
		a.ActivityWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
