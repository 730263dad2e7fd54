// Package loader fetches workplace snapshots from a directory service over
// HTTP and exposes them through the store.EntityStore interface.
package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Dicklesworthstone/orgnet/pkg/model"
	"github.com/Dicklesworthstone/orgnet/pkg/store"
)

// DefaultHTTPTimeout is the default timeout for requests to the directory
// service.
const DefaultHTTPTimeout = 30 * time.Second

// ParseOptions tunes how fetched records are filtered and reported.
type ParseOptions struct {
	// PersonFilter, when set, drops people for which it returns false.
	PersonFilter func(p *model.Person) bool
	// WarningHandler receives a message per skipped record. Nil discards.
	WarningHandler func(msg string)
}

// wirePerson mirrors the directory service JSON response shape (camelCase).
type wirePerson struct {
	ID             string   `json:"id"`
	Role           string   `json:"role"`
	Department     string   `json:"department"`
	ExpertiseAreas []string `json:"expertiseAreas"`
	ManagerID      string   `json:"managerId"`
}

type wireRelationship struct {
	FromID   string  `json:"fromId"`
	ToID     string  `json:"toId"`
	Kind     string  `json:"kind"`
	Strength float64 `json:"strength"`
	Context  string  `json:"context"`
}

type listPeopleResponse struct {
	People []wirePerson `json:"people"`
	Total  int          `json:"total"`
}

type listRelationshipsResponse struct {
	Relationships []wireRelationship `json:"relationships"`
	Total         int                `json:"total"`
}

type interactionCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

// HTTPStore is a store.EntityStore backed by a directory service.
type HTTPStore struct {
	baseURL string
	apiKey  string
	client  *http.Client
	opts    ParseOptions
}

var _ store.EntityStore = (*HTTPStore)(nil)

// NewHTTPStore creates a store for a directory service endpoint
// (e.g. "http://localhost:8443"). An empty apiKey sends no Authorization
// header.
func NewHTTPStore(baseURL, apiKey string, opts ParseOptions) *HTTPStore {
	return newHTTPStore(baseURL, apiKey, opts, &http.Client{Timeout: DefaultHTTPTimeout})
}

// newHTTPStore is the internal constructor that accepts an *http.Client for
// testability.
func newHTTPStore(baseURL, apiKey string, opts ParseOptions, client *http.Client) *HTTPStore {
	return &HTTPStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  client,
		opts:    opts,
	}
}

// get performs a GET against path and decodes the JSON body into out.
func (h *HTTPStore) get(ctx context.Context, path string, out any) error {
	endpoint := h.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("directory returned HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response JSON: %w", err)
	}
	return nil
}

func (h *HTTPStore) warn(msg string) {
	if h.opts.WarningHandler != nil {
		h.opts.WarningHandler(msg)
	}
}

// ListPeople fetches every person from the directory service.
func (h *HTTPStore) ListPeople(ctx context.Context) ([]model.Person, error) {
	var resp listPeopleResponse
	if err := h.get(ctx, "/v1/people", &resp); err != nil {
		return nil, &store.DataSourceError{Op: "list people", Err: err}
	}

	people := make([]model.Person, 0, len(resp.People))
	for i := range resp.People {
		w := &resp.People[i]
		p := model.Person{
			ID:             w.ID,
			Role:           w.Role,
			Department:     w.Department,
			ExpertiseAreas: w.ExpertiseAreas,
			ManagerID:      w.ManagerID,
		}
		if err := p.Validate(); err != nil {
			h.warn(fmt.Sprintf("skipping invalid person: %v", err))
			continue
		}
		if h.opts.PersonFilter != nil && !h.opts.PersonFilter(&p) {
			continue
		}
		people = append(people, p)
	}
	return people, nil
}

// ListCollaborationEdges fetches all non-reporting relationships.
func (h *HTTPStore) ListCollaborationEdges(ctx context.Context) ([]model.Relationship, error) {
	rels, err := h.listRelationships(ctx, "list collaboration edges")
	if err != nil {
		return nil, err
	}
	out := rels[:0]
	for _, r := range rels {
		if !r.Kind.Reporting() {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListReportingEdges fetches manager-kind relationships, oriented
// report -> manager.
func (h *HTTPStore) ListReportingEdges(ctx context.Context) ([]model.Relationship, error) {
	rels, err := h.listRelationships(ctx, "list reporting edges")
	if err != nil {
		return nil, err
	}
	out := rels[:0]
	for _, r := range rels {
		if r.Kind.Reporting() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (h *HTTPStore) listRelationships(ctx context.Context, op string) ([]model.Relationship, error) {
	var resp listRelationshipsResponse
	if err := h.get(ctx, "/v1/relationships", &resp); err != nil {
		return nil, &store.DataSourceError{Op: op, Err: err}
	}

	rels := make([]model.Relationship, 0, len(resp.Relationships))
	for i := range resp.Relationships {
		w := &resp.Relationships[i]
		r := model.Relationship{
			FromID:   w.FromID,
			ToID:     w.ToID,
			Kind:     model.ParseKind(w.Kind),
			Strength: w.Strength,
			Context:  w.Context,
		}
		if err := r.Validate(); err != nil {
			h.warn(fmt.Sprintf("skipping invalid relationship: %v", err))
			continue
		}
		rels = append(rels, r)
	}
	return rels, nil
}

// InteractionCounts fetches logged-interaction totals per person.
func (h *HTTPStore) InteractionCounts(ctx context.Context) (map[string]int, error) {
	var resp interactionCountsResponse
	if err := h.get(ctx, "/v1/interactions/counts", &resp); err != nil {
		return nil, &store.DataSourceError{Op: "interaction counts", Err: err}
	}
	if resp.Counts == nil {
		return map[string]int{}, nil
	}
	return resp.Counts, nil
}

// FindPersonByID scans the people listing for id. The directory service has
// no single-person endpoint, so the lookup stays client-side.
func (h *HTTPStore) FindPersonByID(ctx context.Context, id string) (model.Person, error) {
	people, err := h.ListPeople(ctx)
	if err != nil {
		return model.Person{}, err
	}
	for _, p := range people {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Person{}, store.ErrNotFound
}

// Ping performs a lightweight connectivity check, returning the number of
// people the service reports.
func (h *HTTPStore) Ping(ctx context.Context) (int, error) {
	var resp listPeopleResponse
	if err := h.get(ctx, "/v1/people", &resp); err != nil {
		return 0, &store.DataSourceError{Op: "ping", Err: err}
	}
	if resp.Total > 0 {
		return resp.Total, nil
	}
	return len(resp.People), nil
}
