package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/xavierca1/prospection-crm/internal/entity"
	"github.com/xavierca1/prospection-crm/internal/record"
)

// embedded interactions in every prospect read
const prospectSelect = "*,interactions(*)"

// Client talks to the hosted Postgres REST endpoint (PostgREST dialect).
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    strings.TrimRight(baseURL, "/") + "/rest/v1",
		APIKey:     apiKey,
	}
}

func (c *Client) ListProspects(ctx context.Context, order record.ListOrder) ([]record.ProspectRecord, error) {
	q := url.Values{}
	q.Set("select", prospectSelect)
	q.Set("order", orderParam(order.Prospects))
	q.Set(record.CollectionInteractions+".order", orderParam(order.Interactions))

	var out []record.ProspectRecord
	if err := c.do(ctx, http.MethodGet, record.CollectionProspects, q, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []record.ProspectRecord{}
	}
	return out, nil
}

func (c *Client) InsertProspect(ctx context.Context, fields record.Fields) (*record.ProspectRecord, error) {
	q := url.Values{}
	q.Set("select", prospectSelect)

	var out []record.ProspectRecord
	if err := c.do(ctx, http.MethodPost, record.CollectionProspects, q, fields, &out); err != nil {
		return nil, err
	}
	return firstProspect(out, "insert")
}

func (c *Client) UpdateProspect(ctx context.Context, id string, fields record.Fields) (*record.ProspectRecord, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("select", prospectSelect)
	q.Set(record.CollectionInteractions+".order", orderParam(record.DefaultListOrder.Interactions))

	method := http.MethodPatch
	var body any = fields
	if len(fields) == 0 {
		method, body = http.MethodGet, nil
	}

	var out []record.ProspectRecord
	if err := c.do(ctx, method, record.CollectionProspects, q, body, &out); err != nil {
		return nil, err
	}
	return firstProspect(out, id)
}

func (c *Client) DeleteProspect(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	q.Set("select", "id")

	var out []struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodDelete, record.CollectionProspects, q, nil, &out); err != nil {
		return err
	}
	if len(out) == 0 {
		return fmt.Errorf("%w: %s", entity.ErrNotFound, id)
	}
	return nil
}

func (c *Client) InsertInteraction(ctx context.Context, fields record.Fields) (*record.InteractionRecord, error) {
	var out []record.InteractionRecord
	if err := c.do(ctx, http.MethodPost, record.CollectionInteractions, nil, fields, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: insert interaction returned no row", entity.ErrRemoteUnavailable)
	}
	return &out[0], nil
}

func (c *Client) do(ctx context.Context, method, collection string, q url.Values, body any, out any) error {
	endpoint := c.BaseURL + "/" + collection
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", collection, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", entity.ErrRemoteUnavailable, method, collection, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", entity.ErrRemoteUnavailable, collection, err)
	}

	if resp.StatusCode >= 300 {
		return classify(method, collection, resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", entity.ErrRemoteUnavailable, collection, err)
	}
	return nil
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}

func classify(method, collection string, status int, raw []byte) error {
	var apiErr apiError
	_ = json.Unmarshal(raw, &apiErr)
	msg := apiErr.Message
	if msg == "" {
		msg = string(raw)
	}

	log.Printf("❌ [Supabase] %s %s: %d %s", method, collection, status, msg)

	switch {
	case status == http.StatusNotFound, apiErr.Code == "23503", apiErr.Code == "22P02":
		return fmt.Errorf("%w: %s %s: %s", entity.ErrNotFound, method, collection, msg)
	default:
		return fmt.Errorf("%w: %s %s: status %d: %s", entity.ErrRemoteUnavailable, method, collection, status, msg)
	}
}

func firstProspect(rows []record.ProspectRecord, ref string) (*record.ProspectRecord, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", entity.ErrNotFound, ref)
	}
	p := rows[0]
	if p.Interactions == nil {
		p.Interactions = []record.InteractionRecord{}
	}
	return &p, nil
}

func orderParam(o record.Order) string {
	col := o.Column
	if col == "" {
		col = record.ColDateCreation
	}
	if o.Descending {
		return col + ".desc"
	}
	return col + ".asc"
}
