// Command server runs the trustgate HTTP service. main only wires
// dependencies and the process lifecycle; all behavior lives in internal
// packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"trustgate/internal/actions"
	"trustgate/internal/audit"
	"trustgate/internal/authority"
	authorityhandler "trustgate/internal/authority/handler"
	authoritymetrics "trustgate/internal/authority/metrics"
	"trustgate/internal/orchestrator"
	orchestratorhandler "trustgate/internal/orchestrator/handler"
	orchestratormetrics "trustgate/internal/orchestrator/metrics"
	"trustgate/internal/payments"
	paymentshandler "trustgate/internal/payments/handler"
	paymentsmetrics "trustgate/internal/payments/metrics"
	"trustgate/internal/platform/config"
	"trustgate/internal/platform/httpserver"
	"trustgate/internal/platform/logger"
	platformredis "trustgate/internal/platform/redis"
	"trustgate/internal/relyingparty"
	relyingpartyhandler "trustgate/internal/relyingparty/handler"
	relyingpartymetrics "trustgate/internal/relyingparty/metrics"
	"trustgate/internal/tasks"
	httptransport "trustgate/internal/transport/http"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Backends default to in-memory; each is swapped independently when its
	// setting is present.
	var stateStore authority.StateStore = authority.NewInMemoryStateStore()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		stateStore = authority.NewRedisStateStore(redisClient.Client)
		log.Info("verification state store: redis")
	}

	var paymentStore payments.Store = payments.NewInMemoryStore()
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("failed to open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		pgStore := payments.NewPostgres(db)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Error("failed to ensure payments schema", "error", err)
			os.Exit(1)
		}
		paymentStore = pgStore
		log.Info("payment ledger: postgres")
	}

	var auditStore audit.Store = audit.NewInMemoryStore()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaStore, err := audit.NewKafkaStore(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("failed to connect to kafka", "error", err)
			os.Exit(1)
		}
		defer kafkaStore.Close()
		auditStore = kafkaStore
		log.Info("audit sink: kafka", "topic", cfg.AuditTopic)
	}

	// Domain emitters write to the inbox; the worker drains it into the
	// configured sink off the request path.
	inbox := make(chan audit.Event, 256)
	auditPublisher := audit.NewPublisher(channelStore{inbox: inbox})
	worker := audit.NewWorker(auditStore, inbox)

	authorityMetrics := authoritymetrics.New()
	paymentMetrics := paymentsmetrics.New()
	partyMetrics := relyingpartymetrics.New()
	orchestratorMetrics := orchestratormetrics.New()

	issuer := authority.NewCredentialIssuer(cfg.JWTSigningKey)
	authoritySvc := authority.NewService(
		stateStore,
		authority.NewInMemoryIdentityStore(),
		nil,
		issuer,
		auditPublisher,
		log,
		authorityMetrics,
		cfg.IdentitySalt,
	)
	engine := payments.NewService(paymentStore, nil, log, paymentMetrics)
	partySvc := relyingparty.NewService(
		"platform-a",
		authoritySvc,
		issuer,
		relyingparty.NewInMemoryStore(),
		auditPublisher,
		log,
		partyMetrics,
	)
	orchestratorSvc := orchestrator.NewService(
		engine,
		tasks.NewRegistry(log),
		actions.NewExecutor(log),
		config.StageTimeout,
		log,
		orchestratorMetrics,
	)

	router := httptransport.NewRouter(httptransport.Handlers{
		Authority:    authorityhandler.New(authoritySvc, log, authorityMetrics),
		Payments:     paymentshandler.New(engine, log, paymentMetrics),
		RelyingParty: relyingpartyhandler.New(partySvc, log, partyMetrics),
		Orchestrator: orchestratorhandler.New(orchestratorSvc, log, orchestratorMetrics),
	})
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting trustgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("trustgate exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("trustgate stopped")
}

// channelStore adapts the audit inbox to the Store interface so emitters
// never block on the sink.
type channelStore struct {
	inbox chan<- audit.Event
}

func (c channelStore) Append(ctx context.Context, event audit.Event) error {
	select {
	case c.inbox <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c channelStore) ListByPrincipal(context.Context, string) ([]audit.Event, error) {
	return nil, errors.New("audit inbox is write-only")
}
