package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"docrag/internal/cache"
	"docrag/internal/config"
	"docrag/internal/index"
	"docrag/internal/index/mysqlindex"
	"docrag/internal/index/pinecone"
	mysqlClient "docrag/internal/platform/mysql"
	rabbitmqClient "docrag/internal/platform/rabbitmq"
	redisClient "docrag/internal/platform/redis"
	"docrag/internal/storage"
	localStorage "docrag/internal/storage/local"
	s3Storage "docrag/internal/storage/s3"
	"docrag/internal/worker"
)

// App holds the externally constructed provider handles. Redis and RabbitMQ
// are optional: an empty address disables the embedding cache and the
// document-event pipeline respectively.
type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Storage     storage.Backend
	Index       index.Provider
	Counters    *cache.StatsCounters
	StatsWorker *worker.StatsWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	app := &App{Config: cfg, StartedAt: time.Now()}

	app.Storage, err = newStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app.Index, app.MySQL, err = newIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Addr != "" {
		app.Redis, err = redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		app.Counters = cache.NewStatsCounters(app.Redis)
	}

	if cfg.RabbitMQ.URL != "" {
		app.MQConn, err = rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		if app.Counters != nil {
			app.StatsWorker = worker.NewStatsWorker(app.MQConn, app.Counters, cfg.RabbitMQ.DocumentEventsQueue)
			if err := app.StatsWorker.Start(ctx); err != nil {
				return nil, fmt.Errorf("start stats worker failed: %w", err)
			}
		}
	}

	return app, nil
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Backend, error) {
	switch cfg.Storage.Type {
	case "local":
		return localStorage.New(cfg.Storage.UploadDir)
	case "s3":
		return s3Storage.New(ctx, s3Storage.Config{
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			UseSSL:    cfg.Storage.S3UseSSL,
		})
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Storage.Type)
	}
}

func newIndex(ctx context.Context, cfg *config.Config) (index.Provider, *gorm.DB, error) {
	switch cfg.Index.Provider {
	case "pinecone":
		return pinecone.NewClient(pinecone.Config{
			APIKey:    cfg.Pinecone.APIKey,
			IndexHost: cfg.Pinecone.IndexHost,
		}), nil, nil
	case "mysql":
		db, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, nil, err
		}
		store, err := mysqlindex.New(db)
		if err != nil {
			return nil, nil, err
		}
		return store, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown index provider %q", cfg.Index.Provider)
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.StatsWorker != nil {
		a.StatsWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
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
	return closeErr
}
