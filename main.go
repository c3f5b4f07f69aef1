package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/bank-ledger/api"
	"github.com/carson-networks/bank-ledger/internal/config"
	"github.com/carson-networks/bank-ledger/internal/events"
	"github.com/carson-networks/bank-ledger/internal/logging"
	"github.com/carson-networks/bank-ledger/internal/natsrpc"
	"github.com/carson-networks/bank-ledger/internal/operator"
	"github.com/carson-networks/bank-ledger/internal/service"
	"github.com/carson-networks/bank-ledger/internal/storage"
	"github.com/carson-networks/bank-ledger/internal/storage/memory"
	"github.com/carson-networks/bank-ledger/internal/storage/migrations"
)

const shutdownTimeout = 15 * time.Second

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.WithField("storageDriver", envConfig.StorageDriver).Info("bank-ledger starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, db, err := openStorage(ctx, envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("main.openStorage")
		return
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("main.storage.Close")
		}
	}()

	delegator := operator.NewOperatorDelegator(store, operator.Config{
		Workers:     envConfig.OperatorWorkers,
		QueueSize:   envConfig.OperatorQueueSize,
		MaxAttempts: envConfig.OperatorMaxAttempts,
	}, logger)
	delegator.Start()
	defer delegator.Stop()

	var publisher events.Publisher = events.NopPublisher{}
	if brokers := envConfig.KafkaBrokerList(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, envConfig.KafkaTransferTopic)
		logger.WithField("topic", envConfig.KafkaTransferTopic).Info("main.events.kafka")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.WithError(err).Warn("main.publisher.Close")
		}
	}()

	svc := service.NewService(store, delegator, publisher, logger)

	if envConfig.NatsURL != "" {
		nc, err := nats.Connect(envConfig.NatsURL)
		if err != nil {
			logger.WithError(err).Fatal("main.nats.Connect")
			return
		}
		defer nc.Close()

		responder := natsrpc.NewBalanceResponder(nc, envConfig.NatsBalanceSubject, svc.Account, logger)
		if err := responder.Start(); err != nil {
			logger.WithError(err).Fatal("main.natsrpc.Start")
			return
		}
		defer func() {
			if err := responder.Stop(); err != nil {
				logger.WithError(err).Warn("main.natsrpc.Stop")
			}
		}()
	}

	httpRest := api.NewRest(logger, envConfig.HTTPPort, svc, db)
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpRest.Serve()
	}()

	select {
	case <-ctx.Done():
		logger.Info("bank-ledger shutting down")
	case err := <-serveErr:
		if err != nil {
			logger.WithError(err).Error("main.http.Serve")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpRest.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("main.http.Shutdown")
	}
}

// openStorage returns the configured store. The *sql.DB is nil for the
// in-memory driver.
func openStorage(ctx context.Context, env *config.Config, logger *logrus.Logger) (*storage.Storage, *sql.DB, error) {
	if env.StorageDriver == config.StorageDriverMemory {
		return memory.NewStorage(), nil, nil
	}

	if env.AutoMigrate {
		if err := migrate(env, logger); err != nil {
			return nil, nil, err
		}
	}
	return storage.NewPostgresStorage(ctx, env)
}

// migrate runs on its own connection because closing the migrator closes the
// database it was given.
func migrate(env *config.Config, logger *logrus.Logger) error {
	db, err := sql.Open("postgres", env.PostgresDSN())
	if err != nil {
		return err
	}
	m, err := migrations.New(db)
	if err != nil {
		_ = db.Close()
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			logger.WithError(err).Warn("main.migrations.Close")
		}
	}()

	status, err := m.Up()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"before": status.Before,
		"after":  status.After,
	}).Info("main.migrations.Up")
	return nil
}
