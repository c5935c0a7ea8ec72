// Package template renders {{var}} placeholders in environment header values.
package template

import (
	"fmt"
	"strings"

	"github.com/kumar-tinkesh/headless-api-call-with-model/internal/domain"
)

// RenderString replaces {{VAR}} placeholders with vars values.
// It returns an error if a variable is missing or a placeholder is malformed.
func RenderString(input string, vars domain.Vars) (string, error) {
	if input == "" {
		return "", nil
	}

	var out strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", &domain.OpError{
				Op:   "template.render",
				Kind: domain.KindInvalidConfig,
				Err:  fmt.Errorf("%w: unclosed template expression", domain.ErrInvalidConfig),
			}
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", &domain.OpError{
				Op:   "template.render",
				Kind: domain.KindInvalidConfig,
				Err:  fmt.Errorf("%w: empty template expression", domain.ErrInvalidConfig),
			}
		}

		value, ok := domain.Get(vars, key)
		if !ok {
			return "", &domain.OpError{
				Op:   "template.render",
				Kind: domain.KindMissingVar,
				Err:  fmt.Errorf("%w %q", domain.ErrMissingVar, key),
			}
		}

		out.WriteString(value)
		rest = rest[end+2:]
	}
}

// RenderHeaders renders every header value against vars.
func RenderHeaders(headers domain.Headers, vars domain.Vars) (domain.Headers, error) {
	out := make(domain.Headers, len(headers))
	for k, v := range headers {
		rendered, err := RenderString(v, vars)
		if err != nil {
			return nil, fmt.Errorf("header %s: %w", k, err)
		}
		out[k] = rendered
	}
	return out, nil
}
