package dhis

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsQuery_Params(t *testing.T) {
	q := AnalyticsQuery{
		DX: []string{"Uvn6LCg7dVU", "OdiHJayrsKo"},
		PE: []string{"202401", "202402"},
		OU: "ImspTQPwCqd",
	}

	params := q.Params()
	dims := params["dimension"]
	require.Len(t, dims, 3)
	assert.Equal(t, "dx:Uvn6LCg7dVU;OdiHJayrsKo", dims[0])
	assert.Equal(t, "pe:202401;202402", dims[1])
	assert.Equal(t, "ou:ImspTQPwCqd", dims[2])
	assert.Equal(t, "NAME", params.Get("displayProperty"))
}

func TestHTTPClient_Analytics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/analytics") {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "ApiToken secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"headers": [
				{"name": "dx", "column": "Data", "valueType": "TEXT"},
				{"name": "pe", "column": "Period", "valueType": "TEXT"},
				{"name": "ou", "column": "Organisation unit", "valueType": "TEXT"},
				{"name": "value", "column": "Value", "valueType": "NUMBER"}
			],
			"metaData": {"items": {"Uvn6LCg7dVU": {"name": "ANC 1st visit"}}},
			"rows": [["Uvn6LCg7dVU", "202401", "ImspTQPwCqd", "2094.0"]]
		}`))
	}))
	defer srv.Close()

	c := newHTTPClient(Config{BaseURL: srv.URL, Token: "secret"})
	resp, err := c.Analytics(context.Background(), AnalyticsQuery{
		DX: []string{"Uvn6LCg7dVU"},
		PE: []string{"202401"},
		OU: "ImspTQPwCqd",
	})
	require.NoError(t, err)
	require.Len(t, resp.Rows, 1)
	assert.Equal(t, "ANC 1st visit", resp.MetaData.Items["Uvn6LCg7dVU"].Name)
	assert.Equal(t, "value", resp.Headers[3].Name)
}

func TestHTTPClient_Analytics_ConcurrentCallers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"headers": [
				{"name": "dx"}, {"name": "pe"}, {"name": "ou"}, {"name": "value"}
			],
			"rows": [["a", "202401", "x", "1"]]
		}`))
	}))
	defer srv.Close()

	// One client shared across concurrent pipeline runs; the throttle
	// state must stay consistent under the race detector.
	c := newHTTPClient(Config{BaseURL: srv.URL, Token: "secret", RequestDelay: time.Millisecond})

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = c.Analytics(context.Background(), AnalyticsQuery{
				DX: []string{"a"}, PE: []string{"202401"}, OU: "x",
			})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "call %d", i)
	}
}

func TestHTTPClient_Analytics_AuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newHTTPClient(Config{BaseURL: srv.URL, Token: "wrong"})
	_, err := c.Analytics(context.Background(), AnalyticsQuery{DX: []string{"a"}, PE: []string{"2024"}, OU: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication failed")
}

func TestHTTPClient_ChildOrgUnits_Cached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "O6uvpzGd5pu",
			"children": [
				{"id": "child1", "displayName": "Badjia", "path": "/root/O6uvpzGd5pu/child1", "level": 3},
				{"id": "child2", "displayName": "Baoma", "path": "/root/O6uvpzGd5pu/child2", "level": 3}
			]
		}`))
	}))
	defer srv.Close()

	c := newHTTPClient(Config{BaseURL: srv.URL, Username: "admin", Password: "district"})

	children, err := c.ChildOrgUnits(context.Background(), "O6uvpzGd5pu")
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Badjia", children[0].DisplayName)

	// Second lookup is served from the session cache.
	_, err = c.ChildOrgUnits(context.Background(), "O6uvpzGd5pu")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
