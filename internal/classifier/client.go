// Package classifier is the adapter for the external classification service
// that assigns a department and a priority to a complaint description.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"grievance/backend/internal/models"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// minRetryInitial is the pause used when no initial retry delay is set.
const minRetryInitial = 100 * time.Millisecond

// ErrUnavailable is the only failure kind callers see: timeouts, transport
// errors, non-2xx replies and malformed bodies all map to it.
var ErrUnavailable = errors.New("classification unavailable")

// Result is the classifier's answer for one description.
type Result struct {
	Department    string
	Priority      models.Priority
	PriorityScore *float64
	MassComplaint bool
	Reason        string
}

// Classifier is consumed by the grievance service.
type Classifier interface {
	Classify(ctx context.Context, description string) (Result, error)
}

type classifyRequest struct {
	Description string `json:"description"`
}

type classifyResponse struct {
	Department      string   `json:"department"`
	Priority        string   `json:"priority"`
	PriorityScore   *float64 `json:"priorityScore"`
	IsMassComplaint bool     `json:"isMassComplaint"`
	Reason          string   `json:"reason"`
}

// Options configures a Client.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	RetryAttempts int
	RetryInitial  time.Duration
	RetryMax      time.Duration
}

// Client calls POST <BaseURL>/classify.
type Client struct {
	baseURL  string
	http     *http.Client
	timeout  time.Duration
	attempts int
	initial  time.Duration
	max      time.Duration
}

// NewClient builds a Client with its own pooled transport.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = 1
	}
	if opts.RetryInitial <= 0 {
		opts.RetryInitial = minRetryInitial
	}
	if opts.RetryMax < opts.RetryInitial {
		opts.RetryMax = opts.RetryInitial
	}
	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     newHTTPClient(opts.Timeout),
		timeout:  opts.Timeout,
		attempts: opts.RetryAttempts,
		initial:  opts.RetryInitial,
		max:      opts.RetryMax,
	}
}

func newHTTPClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}

// Classify sends description to the classifier. Every attempt is bounded by
// the configured timeout; failed attempts are retried with backoff.
func (c *Client) Classify(ctx context.Context, description string) (Result, error) {
	var res Result
	err := retry(ctx, c.attempts, c.initial, c.max, func() error {
		var err error
		res, err = c.classifyOnce(ctx, description)
		return err
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return res, nil
}

func (c *Client) classifyOnce(ctx context.Context, description string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(classifyRequest{Description: description})
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return Result{}, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out classifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("decode classifier response: %w", err)
	}
	return out.toResult()
}

func (r classifyResponse) toResult() (Result, error) {
	dept := strings.TrimSpace(r.Department)
	if dept == "" {
		return Result{}, errors.New("classifier response has no department")
	}
	prio := models.Priority(r.Priority)
	if !prio.Valid() {
		return Result{}, fmt.Errorf("classifier returned unknown priority %q", r.Priority)
	}
	return Result{
		Department:    dept,
		Priority:      prio,
		PriorityScore: r.PriorityScore,
		MassComplaint: r.IsMassComplaint,
		Reason:        r.Reason,
	}, nil
}
