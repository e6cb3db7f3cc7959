package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/adverse_media/app/screener/pkg/search"
)

func TestClient_Search(t *testing.T) {
	var got searchRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"query":"q","results":[{"title":"Acme fined","url":"https://news.example/a","content":"Regulator fined Acme","score":0.9,"published_date":"2026-10-01"}]}`))
	}))
	defer srv.Close()

	c := NewClient("tvly-test", srv.URL)
	resp, err := c.Search(context.Background(), &search.Request{
		Query:     "Acme Corp fraud",
		Topic:     "news",
		StartDate: "2026-09-18",
		EndDate:   "2026-10-18",
	})
	require.NoError(t, err)

	assert.Equal(t, "news", got.Topic)
	assert.Equal(t, 5, got.MaxResults)
	assert.Equal(t, "2026-09-18", got.StartDate)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Acme fined", resp.Results[0].Title)
	assert.Equal(t, "2026-10-01", resp.Results[0].PublishedDate)
}

func TestClient_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid key"}`))
	}))
	defer srv.Close()

	_, err := NewClient("bad", srv.URL).Search(context.Background(), &search.Request{Query: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
