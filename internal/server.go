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
	"github.com/coocood/freecache"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/multierr"

	"github.com/ironpulse/recoverd/internal/config"
	"github.com/ironpulse/recoverd/internal/db"
	"github.com/ironpulse/recoverd/internal/middleware"
	"github.com/ironpulse/recoverd/internal/recovery"
	"github.com/ironpulse/recoverd/internal/recovery/calibration"
	"github.com/ironpulse/recoverd/internal/recovery/reference"
	"github.com/ironpulse/recoverd/internal/recovery/snapshot"
	"github.com/ironpulse/recoverd/internal/recovery/training"
	"github.com/ironpulse/recoverd/internal/telemetry/metrics"
	"github.com/ironpulse/recoverd/pkg"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	apiToken          string
	versionInfo       string

	config *config.Config
	dbPool *pgxpool.Pool
	tables *reference.Tables

	redisClient *redis.Client

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
}

type NewServerParams struct {
	Config           *config.Config
	APIToken         string
	PostgresPassword string
	RedisPassword    string
	VersionInfo      string
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBPassword:     params.PostgresPassword,
		TracingEnabled: params.Config.TracingEnabled,
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
	metricsManager := metrics.NewManager("recoverd", "main", promRegistry)
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

	tables := reference.Default()
	if params.Config.ReferenceTablesPath != "" {
		tables, err = reference.Load(params.Config.ReferenceTablesPath)
		if err != nil {
			return nil, fmt.Errorf("load reference tables: %w", err)
		}
		log.Infof("reference table overrides loaded from: %s", params.Config.ReferenceTablesPath)
	}

	return &Server{
		config:      params.Config,
		apiToken:    params.APIToken,
		versionInfo: params.VersionInfo,
		dbPool:      dbPool,
		tables:      tables,
		redisClient: rdb,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("recoverd-router"))

	trainingRepo := training.NewRepo(s.dbPool)

	calibrationService := calibration.NewService(
		calibration.NewRepo(s.dbPool),
		s.tables,
		s.metricsManager,
		s.config.CalibrationAnomalySigma,
	)

	snapshotStore := snapshot.NewStore(
		s.redisClient,
		freecache.NewCache(s.config.FallbackCacheSizeMB*1024*1024),
		time.Duration(s.config.SnapshotTTLMinutes)*time.Minute,
		s.metricsManager,
	)

	engine := recovery.NewEngine(
		trainingRepo,
		calibrationService,
		snapshotStore,
		s.tables,
		s.metricsManager,
		s.config.HistoryLookbackDays,
	)

	recoveryHandler := recovery.NewHandler(engine, calibrationService, trainingRepo, snapshotStore)

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	assessRateLimit := middleware.RateLimit(
		reqRateLimiter,
		"recovery-assess",
		s.config.AssessRateLimitPerMin,
		s.metricsManager,
	)

	r.Handle(
		"/recovery/assess",
		assessRateLimit(http.HandlerFunc(recoveryHandler.HandleAssess)),
	).Methods("POST", "OPTIONS").Name("assess")
	r.HandleFunc("/recovery/assessment/{userID}", recoveryHandler.HandleGetAssessment).
		Methods("GET", "OPTIONS").Name("get-assessment")
	r.HandleFunc("/recovery/observation", recoveryHandler.HandleAddObservation).
		Methods("POST", "OPTIONS").Name("new-observation")
	r.HandleFunc("/recovery/calibration/observation", recoveryHandler.HandleCalibrationObservation).
		Methods("POST", "OPTIONS").Name("new-calibration-observation")
	r.HandleFunc("/recovery/parameters/{userID}", recoveryHandler.HandleGetParameters).
		Methods("GET", "OPTIONS").Name("get-parameters")

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "recoverd: alive and kicking")
	}).Methods("GET").Name("root")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "ok")
	}).Methods("GET").Name("health")
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.apiToken)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(authMiddleware.AuthCheck())
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
			log.Fatalf("recoverd service, listen and serve: %s", err)
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

	var closeErr error
	if s.redisClient != nil {
		closeErr = multierr.Append(closeErr, s.redisClient.Close())
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

	closeErr = multierr.Combine(
		closeErr,
		s.httpServer.Shutdown(ctx),
		s.metricsHttpServer.Shutdown(ctx),
	)
	if closeErr != nil {
		log.Errorf(" >>> failures during shutdown: %s", closeErr)
	}

	log.Warnln("server shut down")
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
