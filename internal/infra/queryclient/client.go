// Package queryclient submits natural-language queries to the processing
// backend over HTTP.
package queryclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/infra/httpclient"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/ports"
	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/usecase/extract"
)

type Client struct {
	endpoint string
	exec     *httpclient.Executor
	headers  domain.Headers
}

type Option func(*Client)

// WithExecutor replaces the default executor (2 minute timeout, 4MB body cap).
func WithExecutor(e *httpclient.Executor) Option {
	return func(c *Client) {
		if e != nil {
			c.exec = e
		}
	}
}

// WithHeaders adds headers to every request, e.g. from an environment file.
func WithHeaders(h domain.Headers) Option {
	return func(c *Client) { c.headers = h }
}

func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		exec:     httpclient.NewExecutor(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.QueryClient = (*Client)(nil)

type requestDTO struct {
	Query string `json:"query"`
}

func (c *Client) Endpoint() string { return c.endpoint }

// Submit POSTs {"query": ...} and decodes the answer. A non-2xx status
// returns a request_rejected error wrapping *domain.RejectedError with the
// decoded error body.
func (c *Client) Submit(ctx context.Context, req domain.QueryRequest) (domain.QueryResponse, error) {
	httpReq, err := httpclient.BuildJSONRequest(ctx, http.MethodPost, c.endpoint, requestDTO{Query: req.Query}, c.headers)
	if err != nil {
		return domain.QueryResponse{}, err
	}

	rd, err := c.exec.Do(ctx, httpReq)
	if err != nil {
		return domain.QueryResponse{}, &domain.OpError{
			Op:   "queryclient.submit",
			Kind: domain.KindExecution,
			Path: c.endpoint,
			Err:  err,
		}
	}

	if !rd.OK() {
		return domain.QueryResponse{}, &domain.OpError{
			Op:   "queryclient.submit",
			Kind: domain.KindRequestRejected,
			Path: c.endpoint,
			Err:  &domain.RejectedError{StatusCode: rd.Status, Body: decodeErrorBody(rd.BodyBytes)},
		}
	}

	if rd.Truncated {
		return domain.QueryResponse{}, &domain.OpError{
			Op:   "queryclient.decode",
			Kind: domain.KindUnexpected,
			Path: c.endpoint,
			Err:  fmt.Errorf("response body truncated at %d bytes", len(rd.BodyBytes)),
		}
	}

	doc, details, err := decodeAnswer(rd.BodyBytes)
	if err != nil {
		return domain.QueryResponse{}, &domain.OpError{
			Op:   "queryclient.decode",
			Kind: domain.KindUnexpected,
			Path: c.endpoint,
			Err:  err,
		}
	}

	return domain.QueryResponse{
		StatusCode: rd.Status,
		Latency:    rd.Duration,
		Doc:        doc,
		Details:    details,
	}, nil
}

// decodeAnswer keeps the full document and reads the informational fields
// leniently. A field with an unexpected shape is left empty.
func decodeAnswer(body []byte) (map[string]any, domain.Details, error) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, domain.Details{}, err
	}
	if doc == nil {
		return nil, domain.Details{}, fmt.Errorf("%w: answer is null", domain.ErrMissingField)
	}

	return doc, domain.Details{
		QueryIntent: text(extract.Optional(doc, "$.query_intent")),
		Status:      text(extract.Optional(doc, "$.status")),
		Warnings:    extract.Strings(doc, "$.warnings"),
		Errors:      extract.Strings(doc, "$.errors"),
		MissingKeys: extract.Strings(doc, "$.missing_keys"),
		GivenValues: extract.Strings(doc, "$.given_values_from_usr_qry"),
		EmptyValues: extract.Strings(doc, "$.empty_values_from_use_qry"),
		HasSummary:  doc["summary"] != nil,
		HasExternal: doc["external_api_response"] != nil,
	}, nil
}

// decodeErrorBody returns the JSON error body, or its raw text when it is
// not JSON.
func decodeErrorBody(b []byte) any {
	var v any
	if err := json.Unmarshal(b, &v); err == nil {
		return v
	}
	return string(bytes.TrimSpace(b))
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
