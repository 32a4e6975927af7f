// Package api provides the HTTP client for the remote polygon store.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"zone-marker/internal/polygon"
)

// DuplicateNameMessage is the error string the store returns when a polygon
// name is already taken. It is the one rejection the UI treats specially.
const DuplicateNameMessage = "Polygon with this name already exists"

// ErrDuplicateName reports a create rejected because the name is already in use.
var ErrDuplicateName = errors.New("polygon with this name already exists")

// TransportError wraps a network-level failure (store unreachable, connection
// dropped). The request may or may not have been received.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "polygon store unreachable: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError reports a non-2xx response from the store.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("polygon store returned %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("polygon store returned %d", e.Code)
}

// Client talks to the polygon store REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the store at baseURL (e.g. "http://localhost:5000").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type createRequest struct {
	Name   string       `json:"name"`
	Points [][2]float64 `json:"points"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// List fetches the full polygon collection.
func (c *Client) List(ctx context.Context) ([]polygon.Polygon, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/polygons", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError(resp)
	}

	var polygons []polygon.Polygon
	if err := json.NewDecoder(resp.Body).Decode(&polygons); err != nil {
		return nil, fmt.Errorf("decoding polygon list: %w", err)
	}
	return polygons, nil
}

// Create submits a candidate polygon. A duplicate-name rejection is returned
// as ErrDuplicateName so callers can keep the draft alive.
func (c *Client) Create(ctx context.Context, name string, points [][2]float64) error {
	body, err := json.Marshal(createRequest{Name: name, Points: points})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/polygons", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := c.statusError(resp)
		var se *StatusError
		if errors.As(statusErr, &se) && se.Message == DuplicateNameMessage {
			return ErrDuplicateName
		}
		return statusErr
	}
	return nil
}

// Delete removes the polygon with the given id.
func (c *Client) Delete(ctx context.Context, id int64) error {
	url := fmt.Sprintf("%s/api/polygons/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(resp)
	}
	return nil
}

// statusError reads an {"error": ...} payload if present and builds a StatusError.
func (c *Client) statusError(resp *http.Response) error {
	se := &StatusError{Code: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var er errorResponse
		if json.Unmarshal(data, &er) == nil {
			se.Message = er.Error
		}
	}
	return se
}
