// Package explorer exposes the admin read-only query surface: paginated
// raw documents of whitelisted collections, KPI dashboard counts and
// per-collection metadata.
package explorer

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/mygymhq/adminboard/internal/explorer/collections"
	"github.com/mygymhq/adminboard/internal/middleware"
	"github.com/mygymhq/adminboard/internal/store"
	"github.com/mygymhq/adminboard/internal/telemetry/metrics"
	"github.com/mygymhq/adminboard/internal/telemetry/tracing"
	"github.com/mygymhq/adminboard/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.opentelemetry.io/otel/attribute"
)

const countsCacheSize = 1024 * 1024 // plenty for two small JSON payloads

type documentStore interface {
	List(ctx context.Context, name string, page, limit int) ([]bson.M, int64, error)
	Meta(ctx context.Context) ([]store.CollectionCount, error)
	Dashboard(ctx context.Context) (*store.DashboardCounts, error)
}

type ListResponse struct {
	Name  string            `json:"name"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
	Total int64             `json:"total"`
	Docs  []json.RawMessage `json:"docs"`
}

type HandlerParams struct {
	Store           documentStore
	MetricsManager  *metrics.Manager
	CountsCacheTTL  int // seconds
	DefaultPageSize int
	MaxPageSize     int
}

type Handler struct {
	store           documentStore
	metricsManager  *metrics.Manager
	countsCache     *freecache.Cache
	countsCacheTTL  int
	defaultPageSize int
	maxPageSize     int
}

func NewHandler(params HandlerParams) *Handler {
	return &Handler{
		store:           params.Store,
		metricsManager:  params.MetricsManager,
		countsCache:     freecache.NewCache(countsCacheSize),
		countsCacheTTL:  params.CountsCacheTTL,
		defaultPageSize: params.DefaultPageSize,
		maxPageSize:     params.MaxPageSize,
	}
}

func (handler *Handler) SetupRoutes(
	r *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	api := r.PathPrefix("/api").Subrouter()

	collectionsRouter := api.PathPrefix("/collections").Subrouter()
	if rateLimiter != nil {
		collectionsRouter.Use(middleware.RateLimit(
			rateLimiter, "collections", allowedPerMin, handler.metricsManager,
		))
	}
	collectionsRouter.HandleFunc("/{name}", handler.HandleListCollection).
		Methods("GET", "OPTIONS").Name("list-collection")

	api.HandleFunc("/dashboard", handler.HandleDashboard).
		Methods("GET", "OPTIONS").Name("dashboard")
	api.HandleFunc("/meta", handler.HandleMeta).
		Methods("GET", "OPTIONS").Name("meta")
}

func (handler *Handler) HandleListCollection(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.explorer.listCollection")
	defer span.End()

	vars := mux.Vars(r)
	name := vars["name"]
	span.SetAttributes(attribute.String("collection", name))

	if !collections.Allowed(name) {
		log.Tracef("list collection: rejected name [%s]", name)
		pkg.WriteResponse(w, pkg.ContentType.JSON, `{"error":"Collection not allowed"}`, http.StatusBadRequest)
		return
	}

	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", handler.defaultPageSize)
	if limit < 1 {
		limit = handler.defaultPageSize
	}
	if limit > handler.maxPageSize {
		limit = handler.maxPageSize
	}

	listStart := time.Now()
	docs, total, err := handler.store.List(ctx, name, page, limit)
	if err != nil {
		log.Errorf("list collection %s: %s", name, err)
		pkg.WriteResponse(w, pkg.ContentType.JSON, `{"error":"Failed to fetch documents"}`, http.StatusInternalServerError)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.HistStoreListDur.Observe(time.Since(listStart).Seconds())
		handler.metricsManager.CounterCollectionFetches.
			WithLabelValues(name).Inc()
	}

	resp := ListResponse{
		Name:  name,
		Page:  page,
		Limit: limit,
		Total: total,
		Docs:  make([]json.RawMessage, 0, len(docs)),
	}
	for _, doc := range docs {
		// extended JSON keeps object ids and dates round-trippable for
		// the normalization layer ($oid / $date wrappers)
		docJson, err := bson.MarshalExtJSON(doc, false, false)
		if err != nil {
			log.Errorf("marshal document from %s: %s", name, err)
			continue
		}
		resp.Docs = append(resp.Docs, docJson)
	}

	respJson, err := json.Marshal(resp)
	if err != nil {
		log.Errorf("marshal list response for %s: %s", name, err)
		pkg.WriteResponse(w, pkg.ContentType.JSON, `{"error":"Failed to fetch documents"}`, http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.explorer.dashboard")
	defer span.End()

	respJson, err := handler.cachedCounts(ctx, "dashboard", func(ctx context.Context) (any, error) {
		return handler.store.Dashboard(ctx)
	})
	if err != nil {
		log.Errorf("dashboard stats: %s", err)
		pkg.WriteResponse(w, pkg.ContentType.JSON, `{"error":"Failed to fetch dashboard stats"}`, http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

func (handler *Handler) HandleMeta(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.explorer.meta")
	defer span.End()

	respJson, err := handler.cachedCounts(ctx, "meta", func(ctx context.Context) (any, error) {
		return handler.store.Meta(ctx)
	})
	if err != nil {
		log.Errorf("meta counts: %s", err)
		pkg.WriteResponse(w, pkg.ContentType.JSON, `{"error":"Failed to fetch metadata"}`, http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, respJson)
}

// cachedCounts serves count payloads from the in-process cache; counts are
// store-reported estimates anyway, a short TTL staleness is fine.
func (handler *Handler) cachedCounts(
	ctx context.Context,
	key string,
	compute func(context.Context) (any, error),
) ([]byte, error) {
	if cached, err := handler.countsCache.Get([]byte(key)); err == nil {
		if handler.metricsManager != nil {
			handler.metricsManager.CounterCountsCacheHits.Inc()
		}
		log.Tracef("counts cache hit: %s", key)
		return cached, nil
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterCountsCacheMisses.Inc()
	}

	counts, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	countsJson, err := json.Marshal(counts)
	if err != nil {
		return nil, err
	}

	if err := handler.countsCache.Set([]byte(key), countsJson, handler.countsCacheTTL); err != nil {
		log.Errorf("failed to cache %s counts: %s", key, err)
	}

	return countsJson, nil
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
