package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kindones/storefront/internal/models"
)

type recorded struct {
	method string
	path   string
	body   string
}

type recorder struct {
	mu    sync.Mutex
	calls []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.calls...)
}

func fakeES(t *testing.T, searchResponse string) (*MenuIndex, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.calls = append(rec.calls, recorded{method: r.Method, path: r.URL.Path, body: string(b)})
		rec.mu.Unlock()
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/_search") {
			_, _ = io.WriteString(w, searchResponse)
			return
		}
		_, _ = io.WriteString(w, `{"result":"ok"}`)
	}))
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return &MenuIndex{Client: client, Index: "menu_items"}, rec
}

func TestMenuIndex_Disabled(t *testing.T) {
	var idx *MenuIndex

	assert.False(t, idx.Enabled())
	assert.NoError(t, idx.Put(context.Background(), Document{ID: "x"}))
	assert.NoError(t, idx.Delete(context.Background(), "x"))
	_, err := idx.Search(context.Background(), "burger")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestMenuIndex_PutAndDelete(t *testing.T) {
	idx, rec := fakeES(t, "{}")

	item := &models.MenuItem{
		ID: "i1", Slug: "smash", Name: "Smash", Description: "double patty",
		Price: decimal.RequireFromString("2.500"), Active: true,
		Category: &models.Category{Name: "Burgers"},
	}
	require.NoError(t, idx.Put(context.Background(), DocumentOf(item)))
	require.NoError(t, idx.Delete(context.Background(), "i1"))

	calls := rec.all()
	require.Len(t, calls, 2)
	assert.Equal(t, "/menu_items/_doc/i1", calls[0].path)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(calls[0].body), &doc))
	assert.Equal(t, "Burgers", doc["category"])
	assert.InDelta(t, 2.5, doc["price"], 1e-9)
	assert.Equal(t, http.MethodDelete, calls[1].method)
}

func TestMenuIndex_Search(t *testing.T) {
	idx, rec := fakeES(t, `{"hits":{"hits":[{"_id":"i2","_score":3.1},{"_id":"i1","_score":1.2}]}}`)

	hits, err := idx.Search(context.Background(), "  burgr ")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "i2", hits[0].ID)

	calls := rec.all()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].body, `"fuzziness":"AUTO"`)
	assert.Contains(t, calls[0].body, `"query":"burgr"`)

	hits, err = idx.Search(context.Background(), " ")
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Len(t, rec.all(), 1)
}
