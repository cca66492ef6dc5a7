// Package tableapi is a client for the remote table-style HTTP API that stores users,
// shifts and shift requests.
package tableapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/metrics"
)

const (
	TableUsers         = "users"
	TableShifts        = "shifts"
	TableShiftRequests = "shift_requests"
)

type Config struct {
	BaseURL      string
	Timeout      time.Duration // per attempt
	MaxRetries   int           // extra attempts after a transport failure
	RetryBackoff time.Duration // doubled on every retry
	ListLimit    int
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	cfg        Config
}

// NewClient builds a client. httpClient may be nil.
func NewClient(cfg Config, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid table api base url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 1000
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		cfg:        cfg,
	}, nil
}

type listEnvelope struct {
	Data json.RawMessage `json:"data"`
}

type errorBody struct {
	Error string `json:"error"`
}

// List fetches GET /tables/<table>?limit=N and decodes the "data" array into out.
func (c *Client) List(ctx context.Context, table string, out any) error {
	path := "/tables/" + table + "?limit=" + strconv.Itoa(c.cfg.ListLimit)

	var env listEnvelope
	if err := c.do(ctx, table, http.MethodGet, path, nil, &env); err != nil {
		return err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &DecodeError{URL: c.baseURL + path, Err: errors.New(`missing "data" field`)}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &DecodeError{URL: c.baseURL + path, Err: err}
	}
	return nil
}

// Get fetches a single bare record.
func (c *Client) Get(ctx context.Context, table, id string, out any) error {
	return c.do(ctx, table, http.MethodGet, recordPath(table, id), nil, out)
}

func (c *Client) Create(ctx context.Context, table string, body, out any) error {
	return c.do(ctx, table, http.MethodPost, "/tables/"+table, body, out)
}

// Patch sends a partial update; only the fields present in body change. When out is
// set and the server answers 204 without a body, the record is read back with Get.
func (c *Client) Patch(ctx context.Context, table, id string, body, out any) error {
	path := recordPath(table, id)
	if out == nil {
		return c.do(ctx, table, http.MethodPatch, path, body, nil)
	}

	var raw json.RawMessage
	if err := c.do(ctx, table, http.MethodPatch, path, body, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		return c.Get(ctx, table, id, out)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{URL: c.baseURL + path, Err: err}
	}
	return nil
}

func (c *Client) Delete(ctx context.Context, table, id string) error {
	return c.do(ctx, table, http.MethodDelete, recordPath(table, id), nil, nil)
}

func recordPath(table, id string) string {
	return "/tables/" + table + "/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, table, method, path string, body, out any) (err error) {
	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", table, err)
		}
	}

	start := time.Now()
	defer func() {
		metrics.TableAPICallDuration.WithLabelValues(table, method).Observe(time.Since(start).Seconds())
		metrics.TableAPICallsTotal.WithLabelValues(table, method, outcome(err)).Inc()
	}()

	fullURL := c.baseURL + path
	backoff := c.cfg.RetryBackoff
	for attempt := 0; ; attempt++ {
		err = c.attempt(ctx, method, fullURL, payload, out)
		if err == nil || !IsTransport(err) || attempt >= c.cfg.MaxRetries || ctx.Err() != nil {
			return err
		}

		metrics.TableAPIRetriesTotal.WithLabelValues(table, method).Inc()
		slog.Warn("table api call failed, retrying",
			"method", method, "url", fullURL, "attempt", attempt+1, "backoff", backoff, "error", err)

		select {
		case <-ctx.Done():
			return &TransportError{Method: method, URL: fullURL, Err: ctx.Err()}
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (c *Client) attempt(ctx context.Context, method, fullURL string, payload []byte, out any) error {
	attemptCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(attemptCtx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Method: method, URL: fullURL, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, URL: fullURL, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Method: method, URL: fullURL, StatusCode: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			statusErr.Message = eb.Error
		}
		return statusErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return &DecodeError{URL: fullURL, Err: errors.New("empty body")}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{URL: fullURL, Err: err}
	}
	return nil
}

func outcome(err error) string {
	var statusErr *StatusError
	var decodeErr *DecodeError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &statusErr):
		return "status_" + strconv.Itoa(statusErr.StatusCode)
	case errors.As(err, &decodeErr):
		return "malformed"
	case IsTransport(err):
		return "transport"
	default:
		return "error"
	}
}
