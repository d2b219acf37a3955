// Package httpapi implements driven.ReportAPI against the remote report
// service over HTTP.
//
// The service answers either {"ok":..,"error":..,"data":..} or the same
// object nested under "data"; both decode to one domain.Envelope.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
	"github.com/enplussmartenergy/erp-sub001/internal/logger"
)

// Endpoint paths relative to the base URL.
const (
	pathEmailCode   = "/auth/email/code"
	pathEmailVerify = "/auth/email/verify"
	pathRegister    = "/auth/register"
	pathBuildings   = "/buildings"
	pathDrafts      = "/drafts"
	pathReports     = "/reports"
)

// DefaultTimeout bounds every request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client is a resty-backed report API client.
type Client struct {
	http *resty.Client
}

var _ driven.ReportAPI = (*Client)(nil)

// Option configures a Client.
type Option func(*resty.Client)

// WithRetry sets the retry count for transport failures.
func WithRetry(count int, wait time.Duration) Option {
	return func(c *resty.Client) {
		c.SetRetryCount(count).SetRetryWaitTime(wait).SetRetryMaxWaitTime(4 * wait)
	}
}

// WithToken sends a bearer token on every request.
func WithToken(token string) Option {
	return func(c *resty.Client) {
		if token != "" {
			c.SetAuthToken(token)
		}
	}
}

// New creates a client for baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	for _, opt := range opts {
		opt(c)
	}
	return &Client{http: c}
}

// RequestEmailCode asks the service to mail a verification code.
func (c *Client) RequestEmailCode(ctx context.Context, email string) (domain.Envelope, error) {
	return c.post(ctx, pathEmailCode, map[string]string{"email": email})
}

// VerifyEmailCode checks a verification code.
func (c *Client) VerifyEmailCode(ctx context.Context, v domain.EmailVerification) (domain.Envelope, error) {
	return c.post(ctx, pathEmailVerify, v)
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, r domain.Registration) (domain.Envelope, error) {
	return c.post(ctx, pathRegister, r)
}

// GetBuildings lists buildings.
func (c *Client) GetBuildings(ctx context.Context, q domain.BuildingQuery) (domain.Envelope, error) {
	req := c.http.R().SetContext(ctx)
	if q.Name != "" {
		req.SetQueryParam("name", q.Name)
	}
	if q.Limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(q.Limit))
	}
	resp, err := req.Get(pathBuildings)
	return c.envelope(pathBuildings, resp, err)
}

// CreateBuilding creates a building.
func (c *Client) CreateBuilding(ctx context.Context, b domain.Building) (domain.Envelope, error) {
	return c.post(ctx, pathBuildings, map[string]string{"name": b.Name, "address": b.Address})
}

// SaveDraft uploads a draft.
func (c *Client) SaveDraft(ctx context.Context, d domain.Draft) (domain.Envelope, error) {
	return c.post(ctx, pathDrafts, d)
}

// SubmitReport submits a complete report.
func (c *Client) SubmitReport(ctx context.Context, r domain.Report) (domain.Envelope, error) {
	return c.post(ctx, pathReports, r)
}

func (c *Client) post(ctx context.Context, path string, body any) (domain.Envelope, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(path)
	return c.envelope(path, resp, err)
}

func (c *Client) envelope(path string, resp *resty.Response, err error) (domain.Envelope, error) {
	if err != nil {
		logger.Debug("report api %s: %v", path, err)
		return domain.Envelope{}, fmt.Errorf("%w: %s: %v", domain.ErrRemoteUnavailable, path, err)
	}
	env, decodeErr := DecodeEnvelope(resp.Body(), resp.IsSuccess())
	if decodeErr != nil {
		return domain.Envelope{}, fmt.Errorf("%w: %s: status %d: %v",
			domain.ErrRemoteUnavailable, path, resp.StatusCode(), decodeErr)
	}
	if !env.OK && env.Error == "" {
		env.Error = http.StatusText(resp.StatusCode())
	}
	logger.Debug("report api %s: status %d ok=%t", path, resp.StatusCode(), env.OK)
	return env, nil
}

// DecodeEnvelope normalises both response shapes. A body without an "ok"
// field at either level takes OK from the HTTP status and carries the whole
// body as Data.
func DecodeEnvelope(body []byte, success bool) (domain.Envelope, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return domain.Envelope{OK: success}, nil
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		if success && json.Valid(body) {
			return domain.Envelope{OK: true, Data: body}, nil
		}
		return domain.Envelope{}, err
	}
	if _, ok := top["ok"]; ok {
		return fromObject(top, body)
	}
	if nested, ok := top["data"]; ok {
		var inner map[string]json.RawMessage
		if json.Unmarshal(nested, &inner) == nil {
			if _, ok := inner["ok"]; ok {
				return fromObject(inner, nested)
			}
		}
	}
	return domain.Envelope{OK: success, Data: body}, nil
}

func fromObject(obj map[string]json.RawMessage, raw []byte) (domain.Envelope, error) {
	var env domain.Envelope
	if err := json.Unmarshal(obj["ok"], &env.OK); err != nil {
		return domain.Envelope{}, fmt.Errorf("decoding ok: %w", err)
	}
	if msg, ok := obj["error"]; ok {
		var s string
		if json.Unmarshal(msg, &s) == nil {
			env.Error = s
		} else {
			env.Error = string(msg)
		}
	}
	if data, ok := obj["data"]; ok {
		env.Data = data
	} else {
		env.Data = raw
	}
	return env, nil
}
