package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/bank-ledger/internal/handlers/v1/account"
	"github.com/carson-networks/bank-ledger/internal/handlers/v1/client"
	"github.com/carson-networks/bank-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/bank-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/bank-ledger/internal/logging"
	"github.com/carson-networks/bank-ledger/internal/service"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
	// DB is pinged by /status. Nil on the in-memory store.
	DB *sql.DB

	server *http.Server
}

func NewRest(logger *logrus.Logger, port string, svc *service.Service, db *sql.DB) *Rest {
	r := &Rest{Logger: logger, Port: port, Service: svc, DB: db}
	r.server = &http.Server{
		Addr:              ":" + port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}
	return r
}

// Handler builds the router: the huma operations under /v1 plus /status.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	api := humago.New(mux, huma.DefaultConfig("Bank Ledger", "1.0.0"))
	api.UseMiddleware(logging.Middleware(r.Logger))

	client.NewCreateClientHandler(r.Service.Client).Register(api)
	client.NewGetClientHandler(r.Service.Client).Register(api)
	client.NewUpdateClientHandler(r.Service.Client).Register(api)
	client.NewListClientsHandler(r.Service.Client).Register(api)

	account.NewCreateAccountHandler(r.Service.Account).Register(api)
	account.NewGetAccountHandler(r.Service.Account).Register(api)
	account.NewListAccountsHandler(r.Service.Account).Register(api)

	transaction.NewCreateTransferHandler(r.Service.Transfer).Register(api)
	transaction.NewGetTransactionHandler(r.Service.Transaction).Register(api)
	transaction.NewGetStatementHandler(r.Service.Transaction).Register(api)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(api)

	var db interface {
		PingContext(ctx context.Context) error
	}
	if r.DB != nil {
		db = r.DB
	}
	statusHandler := status.NewHandler(db)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	return mux
}

// Serve blocks until the server stops. A stop caused by Shutdown is not an error.
func (r *Rest) Serve() error {
	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := r.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (r *Rest) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}
