package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
)

// BuildJSONRequest builds a request whose body is payload encoded as JSON.
// A nil payload sends no body. Headers override the defaults.
func BuildJSONRequest(ctx context.Context, method, url string, payload any, headers domain.Headers) (*http.Request, error) {
	if strings.TrimSpace(url) == "" {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidRequest,
			Err:  domain.ErrInvalidRequest,
		}
	}

	bodyReader := bytes.NewReader(nil)
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, &domain.OpError{
				Op:   "httpclient.build",
				Kind: domain.KindInvalidRequest,
				Path: url,
				Err:  err,
			}
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "httpclient.build",
			Kind: domain.KindInvalidRequest,
			Path: url,
			Err:  err,
		}
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}
