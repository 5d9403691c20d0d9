package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/oksasatya/pixcredit/internal/domain/entity"
	"github.com/oksasatya/pixcredit/internal/domain/repository"
)

const requestTimeout = 3 * time.Second

const imageMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "user_id":     {"type": "keyword"},
      "prompt":      {"type": "text"},
      "storage_url": {"type": "keyword", "index": false},
      "created_at":  {"type": "date"}
    }
  }
}`

// ImageIndex stores generated image prompts in Elasticsearch.
type ImageIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewImageIndex(es *elasticsearch.Client, index string) *ImageIndex {
	return &ImageIndex{es: es, index: index}
}

// EnsureIndex creates the index with its mapping when missing.
func (i *ImageIndex) EnsureIndex(ctx context.Context) error {
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.es.Indices.Exists([]string{i.index}, i.es.Indices.Exists.WithContext(c))
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	_ = res.Body.Close()
	if res.StatusCode == http.StatusOK {
		return nil
	}

	res, err = i.es.Indices.Create(i.index,
		i.es.Indices.Create.WithContext(c),
		i.es.Indices.Create.WithBody(strings.NewReader(imageMapping)))
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("create index: %s", res.Status())
	}
	return nil
}

func (i *ImageIndex) Index(ctx context.Context, img *entity.GeneratedImage) error {
	b, err := json.Marshal(img)
	if err != nil {
		return err
	}
	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req := esapi.IndexRequest{Index: i.index, DocumentID: img.ID, Body: bytes.NewReader(b), Refresh: "false"}
	res, err := req.Do(c, i.es)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

// Search returns the user's images whose prompt matches query, newest first.
func (i *ImageIndex) Search(ctx context.Context, userID, query string, limit int) ([]entity.GeneratedImage, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	must := []any{map[string]any{"term": map[string]any{"user_id": userID}}}
	if q := strings.TrimSpace(query); q != "" {
		must = append(must, map[string]any{"match": map[string]any{"prompt": q}})
	}
	body := map[string]any{
		"query": map[string]any{"bool": map[string]any{"must": must}},
		"sort":  []any{map[string]any{"created_at": map[string]any{"order": "desc"}}},
		"size":  limit,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	c, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := i.es.Search(
		i.es.Search.WithContext(c),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(bytes.NewReader(b)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source entity.GeneratedImage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("es decode: %w", err)
	}

	out := make([]entity.GeneratedImage, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

var _ repository.ImageIndex = (*ImageIndex)(nil)
