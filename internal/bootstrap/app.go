package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"docassist/internal/ai"
	"docassist/internal/config"
	"docassist/internal/mailer"
	"docassist/internal/model"
	mysqlClient "docassist/internal/platform/mysql"
	rabbitmqClient "docassist/internal/platform/rabbitmq"
	redisClient "docassist/internal/platform/redis"
	"docassist/internal/vectorstore"
	"docassist/internal/worker"
)

type App struct {
	Config      *config.Config
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Index       *vectorstore.Storage
	LLM         *ai.OpenAICompatibleClient
	EmailWorker *worker.EmailWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.OTP{}, &model.Document{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	index := vectorstore.NewStorage(vectorstore.Config{
		URL:       cfg.Qdrant.URL,
		APIKey:    cfg.Qdrant.APIKey,
		Dimension: cfg.LLM.EmbeddingDim,
		Timeout:   time.Duration(cfg.Qdrant.TimeoutSeconds) * time.Second,
	})

	otpMailer := mailer.New(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	emailWorker := worker.NewEmailWorker(mqConn, otpMailer, cfg.RabbitMQ.OTPEmailQueue)
	if err := emailWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start email worker failed: %w", err)
	}

	return &App{
		Config:      cfg,
		MySQL:       mysqlDB,
		Redis:       redisCli,
		MQConn:      mqConn,
		Index:       index,
		LLM:         ai.NewOpenAICompatibleClient(),
		EmailWorker: emailWorker,
		StartedAt:   time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.EmailWorker != nil {
		a.EmailWorker.Close()
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
