package bootstrap

import (
	"context"
	"fmt"
	"io"

	"wms-ops-agent/internal/config"
	"wms-ops-agent/internal/controller"
	"wms-ops-agent/internal/pkg/logger"
	"wms-ops-agent/internal/repository/contract"
	"wms-ops-agent/internal/repository/implementation"
	"wms-ops-agent/internal/repository/memory"
	"wms-ops-agent/internal/repository/redisstore"
	"wms-ops-agent/internal/repository/unitofwork"
	"wms-ops-agent/internal/service"
	"wms-ops-agent/pkg/agent/orchestrator"
	"wms-ops-agent/pkg/agent/tools"
	"wms-ops-agent/pkg/events"
	"wms-ops-agent/pkg/llm/factory"

	pktNats "wms-ops-agent/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/hashicorp/go-multierror"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	OpsAgentController controller.IOpsAgentController

	// Services
	OpsAgentService service.IOpsAgentService

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	Logger logger.ILogger

	closers []io.Closer
	loggers []logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	auditLogger := logger.NewIsolatedLogger(cfg.App.AuditLogFilePath)

	c := &Container{
		Logger:  sysLogger,
		loggers: []logger.ILogger{auditLogger, sysLogger},
	}

	// 2. Audit Bus
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 256},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, pubSub)

	// 3. Reasoning Engine
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Keys.LLM,
		cfg.Ai.OllamaBaseURL,
	)
	if err != nil {
		return nil, fmt.Errorf("init llm provider: %w", err)
	}
	sysLogger.Info("BOOTSTRAP", "Using LLM provider", map[string]interface{}{
		"provider": cfg.Ai.LLMProvider,
		"model":    cfg.Ai.LLMModel,
	})

	// 4. Domain Events
	var publisher events.Publisher = events.NoopPublisher{}
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "NATS unavailable, domain events are dropped", map[string]interface{}{
			"url":   cfg.App.NatsURL,
			"error": err.Error(),
		})
	} else {
		publisher = natsPub
		c.closers = append(c.closers, natsPub)
	}

	// 5. Session Store
	sessions, err := c.newSessionStore(db, cfg, sysLogger)
	if err != nil {
		return nil, err
	}

	// 6. Services
	registry := tools.NewRegistry(uowFactory, publisher, sysLogger)
	c.OpsAgentService = service.NewOpsAgentService(
		sessions,
		llmProvider,
		registry,
		orchestrator.Config{
			MaxRounds:    cfg.Agent.MaxRounds,
			HistoryLimit: cfg.Agent.HistoryLimit,
		},
		pubSub,
		cfg.Agent.AuditTopic,
		sysLogger,
	)
	c.ConsumerService = service.NewConsumerService(
		pubSub,
		cfg.Agent.AuditTopic,
		uowFactory,
		auditLogger,
		sysLogger,
	)

	// 7. Controllers
	c.OpsAgentController = controller.NewOpsAgentController(c.OpsAgentService, cfg.Keys.JwtSecret)

	return c, nil
}

func (c *Container) newSessionStore(db *gorm.DB, cfg *config.Config, log logger.ILogger) (contract.AgentSessionStore, error) {
	switch cfg.Agent.SessionStore {
	case "memory":
		return memory.NewAgentSessionStore(cfg.Agent.SessionTTL), nil
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Warn("BOOTSTRAP", "Failed to parse Redis URL, using it as address", map[string]interface{}{
				"error": err.Error(),
			})
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb := redis.NewClient(opt)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("connect redis session store: %w", err)
		}
		c.closers = append(c.closers, rdb)
		return redisstore.NewAgentSessionStore(rdb, cfg.Agent.SessionTTL), nil
	case "postgres", "":
		return implementation.NewAgentSessionStore(db, cfg.Agent.SessionTTL), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Agent.SessionStore)
	}
}

// Close releases infrastructure in reverse order of creation.
func (c *Container) Close() error {
	var result *multierror.Error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	for _, l := range c.loggers {
		// stdout sync returns EINVAL on most terminals
		_ = l.Sync()
	}
	return result.ErrorOrNil()
}
