package plato

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/xid"
)

// apiRequest is the transport-independent description of one logical
// request. The body is held as bytes so the request can be rebuilt for
// every retry attempt.
type apiRequest struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   []byte
}

// do issues the request, retrying transport-level failures with
// exponential backoff until the retry budget is exhausted. An HTTP
// response of any status is terminal and returned as-is; classifying the
// status is the caller's job.
func (c *Client) do(ctx context.Context, r apiRequest) (*http.Response, error) {
	target := c.host + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	// Resolve the bearer token up front: token acquisition failures are
	// terminal, not transient transport faults.
	var authorization string
	if c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("plato: fetch auth token: %w", err)
		}
		authorization = tok.Type() + " " + tok.AccessToken
	}

	var resp *http.Response
	attempts := 0
	terminal := false

	op := func() error {
		attempts++
		req, err := http.NewRequestWithContext(ctx, r.method, target, bodyReader(r.body))
		if err != nil {
			terminal = true
			return backoff.Permanent(fmt.Errorf("plato: build request: %w", err))
		}
		for k, vals := range r.header {
			for _, v := range vals {
				req.Header.Add(k, v)
			}
		}
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		req.Header.Set("X-Request-ID", xid.New().String())

		res, err := c.httpClient.Do(req)
		if err != nil {
			c.log.Debug().
				Str("method", r.method).
				Str("path", r.path).
				Int("attempt", attempts).
				Err(err).
				Msg("request attempt failed")
			return err
		}
		resp = res
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	bo.MaxElapsedTime = 0 // bounded by the retry count, not wall time

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(c.maxRetries)), ctx))
	if err != nil {
		if terminal {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("plato: request aborted: %w", err)
		}
		return nil, &UnavailableError{Attempts: attempts, Err: err}
	}

	c.log.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Int("attempts", attempts).
		Msg("request completed")
	return resp, nil
}

func bodyReader(body []byte) io.Reader {
	if len(body) == 0 {
		return nil
	}
	return bytes.NewReader(body)
}
