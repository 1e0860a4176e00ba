package web

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"codepay/config"
	"codepay/db/db"
	"codepay/db/mem"
	"codepay/db/pg"
	"codepay/mq/gcppubsub"
	"codepay/mq/goch"
	"codepay/mq/kafka"
	"codepay/mq/mq"
	"codepay/mq/rabbit"
)

type MqMode string

const (
	MqModeGoChan    MqMode = "go_chan"
	MqModeRabbitMQ  MqMode = "rabbitmq"
	MqModeGCPPubSub MqMode = "gcp_pub_sub"
	MqModeKafka     MqMode = "kafka"
)

type DBMode string

const (
	DBModeMemory   DBMode = "mem"
	DBModePostgres DBMode = "pg"
)

type ServiceConfig struct {
	IsDev  bool
	Port   string
	MqMode MqMode
	DBMode DBMode
}

const goChanBufferSize = 64

func newMessageQueue(mode MqMode) (mq.IntentMessageQueueWrapper, error) {
	switch mode {
	case MqModeGoChan:
		return goch.NewGoChanIntentMessageQueueWrapper(goChanBufferSize), nil
	case MqModeRabbitMQ:
		return rabbit.NewRabbitIntentMessageQueueWrapper(rabbit.NewRabbitConnection(rabbit.CreateAmqpURL()))
	case MqModeGCPPubSub:
		projectID, err := gcppubsub.GetGCPProjectID()
		if err != nil {
			return nil, err
		}
		return gcppubsub.NewGCPIntentMessageQueueWrapper(context.Background(), projectID)
	case MqModeKafka:
		return kafka.NewKafkaIntentMessageQueueWrapper(config.KafkaBrokers())
	}
	return nil, fmt.Errorf("unknown mq mode %q", mode)
}

// newStore returns the wallet store and a function releasing it.
func newStore(mode DBMode) (db.WalletDBWrapper, func(), error) {
	switch mode {
	case DBModeMemory:
		return mem.NewInMemoryWalletDBWrapper(), func() {}, nil
	case DBModePostgres:
		gormDB, err := pg.InitPostgresGORM(pg.CreateDSN())
		if err != nil {
			return nil, nil, err
		}
		return pg.NewGORMWalletDBWrapper(gormDB), func() { pg.CloseGORM(gormDB) }, nil
	}
	return nil, nil, fmt.Errorf("unknown db mode %q", mode)
}

// NewRouter wires every route of svc.
func NewRouter(svc *Service, isDev bool) *gin.Engine {
	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	setupMiddlewares(r, svc, isDev)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(svc.metrics.Handler()))

	wallets := r.Group("/wallets")
	wallets.POST("", svc.handleCreateWallet)
	wallets.GET("", svc.handleListWallets)
	wallets.GET("/:id", svc.handleGetWallet)
	wallets.DELETE("/:id", svc.handleDeleteWallet)
	wallets.PUT("/:id/balances", svc.handleSetBalances)
	wallets.POST("/:id/intents", svc.handlePlanIntent)
	wallets.GET("/:id/events", svc.handleEvents(newUpgrader(isDev)))

	intents := r.Group("/intents")
	intents.GET("/:id", svc.handleGetIntent)
	intents.POST("/:id/confirm", svc.handleConfirmIntent)
	intents.POST("/:id/cancel", svc.handleCancelIntent)

	payloads := r.Group("/payloads")
	payloads.POST("/encode", handleEncodePayload)
	payloads.POST("/decode", handleDecodePayload)

	return r
}

func Serve(cfg ServiceConfig) {
	queue, err := newMessageQueue(cfg.MqMode)
	if err != nil {
		log.Fatalf("Failed to set up message queue: %v", err)
	}
	defer queue.Close()

	store, closeStore, err := newStore(cfg.DBMode)
	if err != nil {
		log.Fatalf("Failed to set up store: %v", err)
	}
	defer closeStore()

	r := NewRouter(NewService(store, queue), cfg.IsDev)
	log.Printf("Serving on :%s (mq=%s, db=%s)", cfg.Port, cfg.MqMode, cfg.DBMode)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
