package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
)

func newTestIndex(t *testing.T, h http.HandlerFunc) *ImageIndex {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewImageIndex(es, "generated_images")
}

func TestImageIndex_Index(t *testing.T) {
	var gotPath string
	var gotDoc entity.GeneratedImage
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotDoc)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	img := &entity.GeneratedImage{ID: "img-1", UserID: "u-1", Prompt: "a red fox", CreatedAt: time.Now().UTC()}
	require.NoError(t, idx.Index(context.Background(), img))
	assert.Equal(t, "/generated_images/_doc/img-1", gotPath)
	assert.Equal(t, "a red fox", gotDoc.Prompt)
	assert.Equal(t, "u-1", gotDoc.UserID)
}

func TestImageIndex_Search(t *testing.T) {
	var query string
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/generated_images/_search", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		query = string(b)
		_, _ = w.Write([]byte(`{"hits":{"hits":[{"_source":{"id":"img-1","user_id":"u-1","prompt":"a red fox"}}]}}`))
	})

	got, err := idx.Search(context.Background(), "u-1", "fox", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "img-1", got[0].ID)
	assert.True(t, strings.Contains(query, `"user_id":"u-1"`))
	assert.True(t, strings.Contains(query, `"prompt":"fox"`))
	assert.True(t, strings.Contains(query, `"size":20`))
}

func TestImageIndex_SearchError(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"parsing_exception"}}`))
	})

	_, err := idx.Search(context.Background(), "u-1", "", 5)
	assert.Error(t, err)
}

func TestImageIndex_EnsureIndex_Exists(t *testing.T) {
	calls := 0
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodHead, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, idx.EnsureIndex(context.Background()))
	assert.Equal(t, 1, calls)
}
