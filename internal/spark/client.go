package spark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const maxResponseBytes = 1 << 20 // 1MB max

// Sender is the capability the messaging façade needs from the HTTP layer.
// Tests substitute a double for it.
type Sender interface {
	Send(ctx context.Context, method, url string, headers http.Header, body []byte) ([]byte, error)
	SendJSON(ctx context.Context, method, url string, headers http.Header, body []byte, out any) error
}

// Client issues single synchronous HTTP calls against the Spark REST API and
// classifies every response status into a typed outcome. No retries.
type Client struct {
	http   *http.Client
	name   string
	logger *slog.Logger
}

// NewClient creates a client with connection pooling and an explicit overall
// timeout. The name tags log lines so multiple API targets stay apart.
func NewClient(name string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			// The API signals bad credentials with a 302; surface it
			// instead of following the redirect.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		name:   name,
		logger: logger,
	}
}

// Send performs one HTTP call and returns the raw response body, or a
// *TransportError / *StatusError.
func (c *Client) Send(ctx context.Context, method, url string, headers http.Header, body []byte) ([]byte, error) {
	c.logger.Debug("requesting", "client", c.name, "method", method, "url", url)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}

	if err := classifyStatus(resp.StatusCode, respBody, url); err != nil {
		c.logger.Warn("request failed", "client", c.name, "url", url, "status", resp.StatusCode)
		return nil, err
	}

	c.logger.Debug("success", "client", c.name, "url", url)
	return respBody, nil
}

// SendJSON performs Send and decodes the response body into out. A nil out
// discards the body.
func (c *Client) SendJSON(ctx context.Context, method, url string, headers http.Header, body []byte, out any) error {
	respBody, err := c.Send(ctx, method, url, headers, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response from %s: %w", url, err)
	}
	return nil
}

// classifyStatus maps a response status to exactly one typed outcome. The
// set of recognized codes and their messages follow the API's documented
// failure modes.
func classifyStatus(code int, body []byte, url string) error {
	switch code {
	case http.StatusOK:
		return nil
	case http.StatusFound:
		return &StatusError{Code: code, Detail: "incorrect credentials provided"}
	case http.StatusBadRequest:
		var doc struct {
			ErrorDocument struct {
				Message string `json:"message"`
			} `json:"errorDocument"`
		}
		_ = json.Unmarshal(body, &doc)
		return &StatusError{Code: code, Detail: fmt.Sprintf("invalid request: %s", doc.ErrorDocument.Message)}
	case http.StatusUnauthorized:
		return &StatusError{Code: code, Detail: "unauthorized access"}
	case http.StatusForbidden:
		return &StatusError{Code: code, Detail: "forbidden access to the REST API"}
	case http.StatusNotFound:
		return &StatusError{Code: code, Detail: fmt.Sprintf("URL not found %s", url)}
	case http.StatusNotAcceptable:
		return &StatusError{Code: code, Detail: "the Accept header sent in the request does not match a supported type"}
	case http.StatusUnsupportedMediaType:
		return &StatusError{Code: code, Detail: "the Content-Type header sent in the request does not match a supported type"}
	case http.StatusInternalServerError:
		return &StatusError{Code: code, Detail: "an error has occurred during the API invocation"}
	case http.StatusBadGateway:
		return &StatusError{Code: code, Detail: "the server is down or being upgraded"}
	case http.StatusServiceUnavailable:
		return &StatusError{Code: code, Detail: "the servers are up, but overloaded with requests, try again later"}
	default:
		return &StatusError{Code: code, Detail: fmt.Sprintf("unknown request error, return code is %d", code)}
	}
}
