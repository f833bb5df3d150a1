package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/fitforge/internal/config"
	"github.com/2beens/fitforge/internal/db"
	"github.com/2beens/fitforge/internal/history"
	"github.com/2beens/fitforge/internal/middleware"
	"github.com/2beens/fitforge/internal/openai"
	"github.com/2beens/fitforge/internal/plangen"
	"github.com/2beens/fitforge/internal/preferences"
	"github.com/2beens/fitforge/internal/routines"
	"github.com/2beens/fitforge/internal/stats"
	"github.com/2beens/fitforge/internal/subscription"
	"github.com/2beens/fitforge/internal/telemetry/metrics"
	"github.com/2beens/fitforge/internal/telemetry/tracing"
	"github.com/2beens/fitforge/internal/tracker"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config       *config.Config
	dbPool       *pgxpool.Pool
	redisClient  *redis.Client
	openaiClient *openai.Client

	preferencesRepo *preferences.Repo
	historyRepo     *history.Repo
	routinesRepo    *routines.Repo

	subscriptionRepo    *subscription.Repo
	subscriptionService *subscription.Service
	stripeWebhookSecret string

	statsService   *stats.Service
	plangenService *plangen.Service
	trackerService *tracker.Service

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	OpenAIAPIKey            string
	PostgresPassword        string
	RedisPassword           string
	StripeWebhookSecret     string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("fitforge", "backend", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "fitforge-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	openaiClient := openai.NewClient(
		params.Config.OpenAIBaseURL,
		params.OpenAIAPIKey,
		params.Config.OpenAIModel,
		time.Duration(params.Config.OpenAITimeoutSeconds)*time.Second,
		tracedHttpClient,
	)

	preferencesRepo := preferences.NewRepo(dbPool)
	historyRepo := history.NewRepo(dbPool)
	routinesRepo := routines.NewRepo(dbPool)
	subscriptionRepo := subscription.NewRepo(dbPool)
	subscriptionService := subscription.NewService(subscriptionRepo)

	return &Server{
		config:       params.Config,
		dbPool:       dbPool,
		redisClient:  rdb,
		openaiClient: openaiClient,

		preferencesRepo: preferencesRepo,
		historyRepo:     historyRepo,
		routinesRepo:    routinesRepo,

		subscriptionRepo:    subscriptionRepo,
		subscriptionService: subscriptionService,
		stripeWebhookSecret: params.StripeWebhookSecret,

		statsService: stats.NewService(historyRepo, openaiClient, metricsManager),
		plangenService: plangen.NewService(
			subscriptionService,
			preferencesRepo,
			historyRepo,
			routinesRepo,
			openaiClient,
			metricsManager,
		),
		trackerService: tracker.NewService(tracker.NewRedisStore(rdb)),

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("fitforge-router"))

	preferencesHandler := preferences.NewHandler(s.preferencesRepo)
	preferencesHandler.SetupRoutes(r)

	historyHandler := history.NewHandler(s.historyRepo)
	historyHandler.SetupRoutes(r)

	routinesHandler := routines.NewHandler(s.routinesRepo)
	routinesHandler.SetupRoutes(r)

	statsHandler := stats.NewHandler(s.statsService)
	statsHandler.SetupRoutes(r)

	trackerHandler := tracker.NewHandler(s.trackerService)
	trackerHandler.SetupRoutes(r)

	subscriptionHandler := subscription.NewHandler(s.subscriptionService)
	stripeWebhookHandler := subscription.NewWebhookHandler(
		s.stripeWebhookSecret,
		s.subscriptionRepo,
		s.subscriptionService,
		s.metricsManager,
	)
	subscriptionHandler.SetupRoutes(r, stripeWebhookHandler)

	// plan generation is rate limited per route on top of the per-user quota
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	plangenHandler := plangen.NewHandler(s.plangenService)
	r.Handle(
		"/generate-workout",
		middleware.RateLimit(
			reqRateLimiter,
			"generate-workout",
			s.config.GenerateRateLimitAllowedPerMin,
			s.metricsManager,
		)(http.HandlerFunc(plangenHandler.HandleGenerate)),
	).Methods("POST", "OPTIONS").Name("generate-workout")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown http server")
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		log.Error(" >>> failed to gracefully shutdown metrics http server")
	}
	log.Warnln("metrics server shut down")
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
