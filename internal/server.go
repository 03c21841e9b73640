package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/mygymhq/adminboard/internal/config"
	"github.com/mygymhq/adminboard/internal/db"
	"github.com/mygymhq/adminboard/internal/explorer"
	"github.com/mygymhq/adminboard/internal/middleware"
	"github.com/mygymhq/adminboard/internal/store"
	"github.com/mygymhq/adminboard/internal/telemetry/metrics"
	"github.com/mygymhq/adminboard/internal/telemetry/tracing"
	"github.com/mygymhq/adminboard/pkg"

	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config          *config.Config
	mongoDB         *mongo.Database
	mongoDisconnect func(context.Context) error
	redisClient     *redis.Client

	// telemetry
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config         *config.Config
	MongoURI       string
	RedisPassword  string
	VersionInfo    string
	TracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	mongoDB, mongoDisconnect, err := db.NewMongoDatabase(ctx, db.NewMongoParams{
		URI:    params.MongoURI,
		DBName: params.Config.MongoDBName,
	})
	if err != nil {
		return nil, fmt.Errorf("new mongo database: %w", err)
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("mygym", "admin", promRegistry)
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

	otelShutdown, err := tracing.HoneycombSetup(params.TracingEnabled, "admin-backend")
	if err != nil {
		return nil, err
	}

	return &Server{
		config:          params.Config,
		versionInfo:     params.VersionInfo,
		mongoDB:         mongoDB,
		mongoDisconnect: mongoDisconnect,
		redisClient:     rdb,
		metricsManager:  metricsManager,
		promRegistry:    promRegistry,
		otelShutdown:    otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("admin-router"))

	explorerHandler := explorer.NewHandler(explorer.HandlerParams{
		Store:           store.New(s.mongoDB),
		MetricsManager:  s.metricsManager,
		CountsCacheTTL:  s.config.CountsCacheTTLSeconds,
		DefaultPageSize: s.config.DefaultPageSize,
		MaxPageSize:     s.config.MaxPageSize,
	})
	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	explorerHandler.SetupRoutes(r, reqRateLimiter, s.config.CollectionsRateLimitAllowedPerMin)

	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, "MyGym Admin Backend is running")
	}).Methods("GET").Name("health")
	r.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		pkg.WriteTextResponseOK(w, s.versionInfo)
	}).Methods("GET").Name("version")

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

func (s *Server) Serve(host string, port int) {
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
			log.Fatalf("admin service, listen and serve: %s", err)
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

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.mongoDisconnect != nil {
		log.Debugln("disconnecting from mongo ...")
		if err := s.mongoDisconnect(ctx); err != nil {
			log.Errorf("failed to disconnect from mongo: %s", err)
		}
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

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
