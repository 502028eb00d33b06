// Package client talks to the calendar REST API and mirrors its events for
// the duration of a session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go-gin-calendar/internal/model"
	apperrors "go-gin-calendar/pkg/app_errors"

	"github.com/google/uuid"
)

// EventDraft is the body of a create request. The server assigns _id,
// createdAt and updatedAt.
type EventDraft struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Color       string    `json:"color,omitempty"`
}

// EventPatch 只送出非 nil 欄位
type EventPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Start       *time.Time `json:"start,omitempty"`
	End         *time.Time `json:"end,omitempty"`
	Color       *string    `json:"color,omitempty"`
}

type EventAPI interface {
	List(ctx context.Context, filter model.EventFilter) ([]model.Event, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Event, error)
	Create(ctx context.Context, draft EventDraft) (*model.Event, error)
	Update(ctx context.Context, id uuid.UUID, patch EventPatch) (*model.Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type HolidayAPI interface {
	Holidays(ctx context.Context, year int, country string) ([]model.Holiday, error)
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the transport, e.g. to set a timeout. The default
// client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) List(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	q := url.Values{}
	if filter.From != nil {
		q.Set("from", filter.From.UTC().Format(time.RFC3339Nano))
	}
	if filter.To != nil {
		q.Set("to", filter.To.UTC().Format(time.RFC3339Nano))
	}
	path := "/api/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	events := make([]model.Event, 0)
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *HTTPClient) Get(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	if err := c.do(ctx, http.MethodGet, "/api/events/"+id.String(), nil, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) Create(ctx context.Context, draft EventDraft) (*model.Event, error) {
	var event model.Event
	if err := c.do(ctx, http.MethodPost, "/api/events", draft, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) Update(ctx context.Context, id uuid.UUID, patch EventPatch) (*model.Event, error) {
	var event model.Event
	if err := c.do(ctx, http.MethodPut, "/api/events/"+id.String(), patch, &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *HTTPClient) Delete(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/events/"+id.String(), nil, nil)
}

func (c *HTTPClient) Holidays(ctx context.Context, year int, country string) ([]model.Holiday, error) {
	path := "/api/holidays/" + strconv.Itoa(year)
	if country != "" {
		path += "?country=" + url.QueryEscape(country)
	}
	holidays := make([]model.Holiday, 0)
	if err := c.do(ctx, http.MethodGet, path, nil, &holidays); err != nil {
		return nil, err
	}
	return holidays, nil
}

type messageBody struct {
	Message string `json:"message"`
}

// do sends one request and decodes a 2xx body into out. Error statuses map
// back onto the server's error kinds.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	var msg messageBody
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil || msg.Message == "" {
		msg.Message = http.StatusText(resp.StatusCode)
	}
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, msg.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", apperrors.ErrEventNotFound, msg.Message)
	default:
		return &StatusError{Code: resp.StatusCode, Message: msg.Message}
	}
}

// StatusError is an unexpected response status. It matches ErrStorage for
// 5xx responses.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return e.Code >= 500 && errors.Is(target, apperrors.ErrStorage)
}
