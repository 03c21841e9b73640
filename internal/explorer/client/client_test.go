package client_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mygymhq/adminboard/internal/explorer/client"
	"github.com/mygymhq/adminboard/internal/explorer/collections"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/collections/exercises", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"name": "exercises", "page": 2, "limit": 50, "total": 120,
			"docs": [
				{"_id": {"$oid": "65f1a"}, "name": "Squat", "levels": "Beginner"},
				{"_id": {"$oid": "65f1b"}, "name": "Plank"}
			]
		}`))
	}))
	defer server.Close()

	c := client.New(server.URL, server.Client())
	page, err := c.FetchPage(context.Background(), collections.Exercises, 2, 50)

	require.NoError(t, err)
	assert.Equal(t, "exercises", page.Name)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 50, page.PageSize)
	assert.Equal(t, 120, page.Total)
	require.Len(t, page.Docs, 2)
	assert.Equal(t, "Squat", page.Docs[0]["name"])
	assert.Equal(t, map[string]any{"$oid": "65f1a"}, page.Docs[0]["_id"])
}

func TestFetchPage_DisallowedCollectionNeverHitsNetwork(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	c := client.New(server.URL, server.Client())
	page, err := c.FetchPage(context.Background(), "secrets", 1, 20)

	require.Nil(t, page)
	assert.ErrorIs(t, err, client.ErrCollectionNotAllowed)
	assert.Zero(t, hits.Load())
}

func TestFetchPage_InvalidPageParams(t *testing.T) {
	c := client.New("http://irrelevant", nil)
	for _, params := range [][2]int{{0, 20}, {1, 0}, {-1, -1}} {
		_, err := c.FetchPage(context.Background(), collections.Exercises, params[0], params[1])
		require.Error(t, err)
	}
}

func TestFetchPage_PrefixFallbackOn404(t *testing.T) {
	var apiHits, bareHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/collections/exercises" {
			apiHits.Add(1)
			http.NotFound(w, r)
			return
		}
		require.Equal(t, "/collections/exercises", r.URL.Path)
		bareHits.Add(1)
		_, _ = w.Write([]byte(`{"name": "exercises", "page": 1, "limit": 20, "total": 0, "docs": []}`))
	}))
	defer server.Close()

	c := client.New(server.URL, server.Client())

	page, err := c.FetchPage(context.Background(), collections.Exercises, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "exercises", page.Name)
	assert.Equal(t, int32(1), apiHits.Load())
	assert.Equal(t, int32(1), bareHits.Load())

	// the working prefix is remembered, no second 404 round-trip
	_, err = c.FetchPage(context.Background(), collections.Exercises, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(1), apiHits.Load())
	assert.Equal(t, int32(2), bareHits.Load())
}

func TestFetchPage_ConcurrentPrefixFallback(t *testing.T) {
	// the loader issues the primary and join fetches in parallel through
	// one shared client; with the backend mounted on the bare prefix both
	// goroutines take the 404 fallback and remember the working prefix
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.NotFound(w, r)
			return
		}
		name := strings.TrimPrefix(r.URL.Path, "/collections/")
		fmt.Fprintf(w, `{"name": %q, "page": 1, "limit": 20, "total": 0, "docs": []}`, name)
	}))
	defer server.Close()

	c := client.New(server.URL, server.Client())

	var wg sync.WaitGroup
	fetch := func(name string) {
		defer wg.Done()
		page, err := c.FetchPage(context.Background(), name, 1, 20)
		assert.NoError(t, err)
		if err == nil {
			assert.Equal(t, name, page.Name)
		}
	}
	wg.Add(2)
	go fetch(collections.Activities)
	go fetch(collections.Users)
	wg.Wait()

	// steady state: the remembered prefix serves follow-ups in one round-trip
	page, err := c.FetchPage(context.Background(), collections.Exercises, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "exercises", page.Name)
}

func TestFetchPage_NoFallbackOnServerError(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := client.New(server.URL, server.Client())
	_, err := c.FetchPage(context.Background(), collections.Exercises, 1, 20)

	var fetchErr *client.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
	assert.False(t, fetchErr.NotFound())
	assert.Equal(t, int32(1), hits.Load())
}

func TestFetchPage_BothPrefixesAbsent(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	c := client.New(server.URL, server.Client())
	_, err := c.FetchPage(context.Background(), collections.Exercises, 1, 20)

	var fetchErr *client.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.NotFound())
	assert.Equal(t, int32(2), hits.Load())
}

func TestFetchPage_BackendUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	c := client.New(server.URL, nil)
	_, err := c.FetchPage(context.Background(), collections.Exercises, 1, 20)

	var netErr *client.NetworkError
	require.ErrorAs(t, err, &netErr)
	require.Error(t, errors.Unwrap(netErr))
}

func TestFetchDashboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/dashboard", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"totalActivities": 1200, "totalDailyStepsRecords": 5400,
			"totalExercises": 300, "activeChallenges": 12,
			"openCarts": 7, "totalConversations": 88
		}`))
	}))
	defer server.Close()

	c := client.New(server.URL, server.Client())
	stats, err := c.FetchDashboard(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1200, stats.TotalActivities)
	assert.Equal(t, 5400, stats.TotalDailyStepsRecords)
	assert.Equal(t, 12, stats.ActiveChallenges)
	assert.Equal(t, 88, stats.TotalConversations)
}

func TestFetchMeta(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/meta", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"name": "activities", "count": 1200},
			{"name": "users", "count": 340}
		]`))
	}))
	defer server.Close()

	c := client.New(server.URL, server.Client())
	meta, err := c.FetchMeta(context.Background())

	require.NoError(t, err)
	require.Len(t, meta, 2)
	assert.Equal(t, "activities", meta[0].Name)
	assert.Equal(t, 340, meta[1].Count)
}

func TestFetchPage_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"docs": not-json`))
	}))
	defer server.Close()

	c := client.New(server.URL, server.Client())
	_, err := c.FetchPage(context.Background(), collections.Exercises, 1, 20)
	require.ErrorContains(t, err, "decode response")
}
