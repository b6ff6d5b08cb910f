// Package search mirrors the active menu into Elasticsearch for fuzzy lookup.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/kindones/storefront/internal/models"
	"github.com/kindones/storefront/internal/money"
)

var ErrDisabled = errors.New("search disabled")

const maxResults = 20

type Config struct {
	URL      string
	User     string
	Password string
}

// NewClient connects and verifies the cluster answers.
func NewClient(cfg Config, log *slog.Logger) (*elasticsearch.Client, error) {
	log.Info("es_connect", "url", cfg.URL)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.User,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("es client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("es info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type Document struct {
	ID          string     `json:"id"`
	Slug        string     `json:"slug"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category,omitempty"`
	Price       money.Mils `json:"price"`
	Active      bool       `json:"active"`
}

func DocumentOf(m *models.MenuItem) Document {
	d := Document{
		ID:          m.ID,
		Slug:        m.Slug,
		Name:        m.Name,
		Description: m.Description,
		Price:       money.FromDecimal(m.Price),
		Active:      m.Active,
	}
	if m.Category != nil {
		d.Category = m.Category.Name
	}
	return d
}

type Hit struct {
	ID    string
	Score float64
}

// MenuIndex is nil-safe: a nil index behaves as disabled.
type MenuIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func (m *MenuIndex) Enabled() bool {
	return m != nil && m.Client != nil
}

func (m *MenuIndex) Put(ctx context.Context, d Document) error {
	if !m.Enabled() {
		return nil
	}
	body, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	res, err := m.Client.Index(m.Index, bytes.NewReader(body),
		m.Client.Index.WithDocumentID(d.ID),
		m.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es index: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("es index: %s", res.Status())
	}
	return nil
}

func (m *MenuIndex) Delete(ctx context.Context, id string) error {
	if !m.Enabled() {
		return nil
	}
	res, err := m.Client.Delete(m.Index, id, m.Client.Delete.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("es delete: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete: %s", res.Status())
	}
	return nil
}

// Search matches name and description with fuzziness, active items only,
// best match first.
func (m *MenuIndex) Search(ctx context.Context, q string) ([]Hit, error) {
	if !m.Enabled() {
		return nil, ErrDisabled
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return []Hit{}, nil
	}

	query := map[string]any{
		"size": maxResults,
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":     q,
						"fields":    []string{"name^2", "description", "category"},
						"fuzziness": "AUTO",
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"active": true},
				},
			},
		},
	}
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	res, err := m.Client.Search(
		m.Client.Search.WithContext(ctx),
		m.Client.Search.WithIndex(m.Index),
		m.Client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("es search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID    string  `json:"_id"`
				Score float64 `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]Hit, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}
