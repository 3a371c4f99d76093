package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/apex/log"

	"github.com/ajithks-aufait/PWA-PTMS-sub000/internal/models"
)

// entitySet is the OData collection holding plant tour evaluations.
const entitySet = "ptms_planttourevaluations"

// StatusError is a non-2xx response from the remote store. The sync executor
// treats any StatusError as a per-record failure and keeps the submission
// queued.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("remote store returned %d: %s", e.Code, e.Body)
}

// Client talks to the remote CRM store. All calls acquire a bearer token from
// the TokenProvider; an authorization failure is retried exactly once with a
// freshly acquired token, and a second failure is surfaced as final.
type Client struct {
	baseURL    string
	tokens     TokenProvider
	httpClient *http.Client
}

// NewClient builds a store client. baseURL is the organization root, e.g.
// "https://org.crm.dynamics.com/api/data/v9.2".
func NewClient(baseURL string, tokens TokenProvider) *Client {
	return &Client{
		baseURL:    baseURL,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// CreateRecord posts a single inspection record to the remote store. The
// store is append-only; re-posting an equivalent record creates a duplicate
// that reconciliation later resolves.
func (c *Client) CreateRecord(ctx context.Context, rec models.InspectionRecord) error {
	body, err := json.Marshal(toWire(rec))
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	return c.do(ctx, http.MethodPost, "/"+entitySet, body, nil)
}

// ListByTour fetches every stored record for a tour.
func (c *Client) ListByTour(ctx context.Context, tourID string) ([]models.InspectionRecord, error) {
	filter := url.QueryEscape(fmt.Sprintf("ptms_tourid eq '%s'", tourID))
	path := fmt.Sprintf("/%s?$filter=%s", entitySet, filter)

	var result struct {
		Value []wireRecord `json:"value"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}

	records := make([]models.InspectionRecord, 0, len(result.Value))
	for _, w := range result.Value {
		records = append(records, fromWire(w))
	}
	return records, nil
}

// do executes one request against the store, handling the token lifecycle.
// On a 401 it refreshes the token and retries once; any other non-2xx status
// becomes a StatusError.
func (c *Client) do(ctx context.Context, method, path string, body []byte, result interface{}) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("cannot reach remote store: %w", err)
	}

	resp, err := c.send(ctx, method, path, body, token)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		log.Warn("remote store rejected token, refreshing and retrying once")
		token, err = c.tokens.Refresh(ctx)
		if err != nil {
			return fmt.Errorf("cannot reach remote store: %w", err)
		}
		resp, err = c.send(ctx, method, path, body, token)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{Code: resp.StatusCode, Body: string(msg)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, token string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("OData-Version", "4.0")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote request failed: %w", err)
	}
	return resp, nil
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
