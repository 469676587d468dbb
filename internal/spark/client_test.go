package spark

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func TestSend_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, testLogger())
	body, err := c.Send(context.Background(), http.MethodGet, srv.URL, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestSend_StatusClassification(t *testing.T) {
	cases := []struct {
		code   int
		detail string
	}{
		{302, "incorrect credentials provided"},
		{401, "unauthorized access"},
		{403, "forbidden access to the REST API"},
		{406, "the Accept header sent in the request does not match a supported type"},
		{415, "the Content-Type header sent in the request does not match a supported type"},
		{500, "an error has occurred during the API invocation"},
		{502, "the server is down or being upgraded"},
		{503, "the servers are up, but overloaded with requests, try again later"},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.code)
		}))

		c := NewClient("test", time.Second, testLogger())
		_, err := c.Send(context.Background(), http.MethodGet, srv.URL, nil, nil)
		srv.Close()

		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("code %d: expected StatusError, got %v", tc.code, err)
		}
		if se.Code != tc.code {
			t.Errorf("expected code %d, got %d", tc.code, se.Code)
		}
		if se.Detail != tc.detail {
			t.Errorf("code %d: expected %q, got %q", tc.code, tc.detail, se.Detail)
		}
	}
}

func TestSend_BadRequestExtractsMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errorDocument":{"message":"roomId is required"}}`))
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, testLogger())
	_, err := c.Send(context.Background(), http.MethodPost, srv.URL, nil, nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Detail != "invalid request: roomId is required" {
		t.Errorf("unexpected detail: %q", se.Detail)
	}
}

func TestSend_NotFoundIncludesURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, testLogger())
	url := srv.URL + "/v1/messages/missing"
	_, err := c.Send(context.Background(), http.MethodGet, url, nil, nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Detail != "URL not found "+url {
		t.Errorf("unexpected detail: %q", se.Detail)
	}
}

func TestSend_UnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, testLogger())
	_, err := c.Send(context.Background(), http.MethodGet, srv.URL, nil, nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusTeapot {
		t.Errorf("expected code 418, got %d", se.Code)
	}
	if se.Detail != "unknown request error, return code is 418" {
		t.Errorf("unexpected detail: %q", se.Detail)
	}
}

func TestSend_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient("test", time.Second, testLogger())
	_, err := c.Send(context.Background(), http.MethodGet, srv.URL, nil, nil)

	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestSend_DoesNotFollowRedirect(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, testLogger())
	_, err := c.Send(context.Background(), http.MethodGet, srv.URL, nil, nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusFound {
		t.Errorf("expected the 302 itself, got %d", se.Code)
	}
}

func TestSend_ForwardsHeaders(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	headers := http.Header{}
	headers.Set("Authorization", "Bearer token123")

	c := NewClient("test", time.Second, testLogger())
	if _, err := c.Send(context.Background(), http.MethodGet, srv.URL, headers, nil); err != nil {
		t.Fatal(err)
	}
	if got != "Bearer token123" {
		t.Errorf("expected auth header to be forwarded, got %q", got)
	}
}

func TestSendJSON_Decodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"hello"}`))
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, testLogger())
	var out struct {
		Text string `json:"text"`
	}
	if err := c.SendJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, &out); err != nil {
		t.Fatal(err)
	}
	if out.Text != "hello" {
		t.Errorf("expected hello, got %q", out.Text)
	}
}

func TestSendJSON_PropagatesClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, testLogger())
	var out map[string]any
	err := c.SendJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, &out)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", se.Code)
	}
}

func TestSendJSON_InvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient("test", time.Second, testLogger())
	var out map[string]any
	if err := c.SendJSON(context.Background(), http.MethodGet, srv.URL, nil, nil, &out); err == nil {
		t.Error("expected decode error for non-JSON body")
	}
}
