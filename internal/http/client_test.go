package http

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "5")
		w.Write([]byte("hello"))
	}))
	defer server.Close()

	client, err := NewClient(DefaultOptions())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
	if resp.ContentLength != 5 {
		t.Errorf("expected content length 5, got %d", resp.ContentLength)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(body) != "hello" {
		t.Errorf("expected 'hello', got '%s'", string(body))
	}
}

func TestGetBasicAuth(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer server.Close()

	client, err := NewClient(DefaultOptions())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Get(context.Background(), server.URL, &BasicAuth{Username: "alice", Password: "secret"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	resp.Body.Close()

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:secret"))
	if gotAuth != want {
		t.Errorf("expected Authorization %q, got %q", want, gotAuth)
	}
}

func TestGetNotFoundReturnsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewClient(DefaultOptions())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", resp.StatusCode)
	}
	if resp.Body != nil {
		t.Error("expected nil body on non-200 response")
	}
}

func TestRetryOnServerError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.RetryBackoff = 10 * time.Millisecond
	opts.RetryMaxBackoff = 50 * time.Millisecond

	client, err := NewClient(opts)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer resp.Body.Close()

	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200 after retries, got %d", resp.StatusCode)
	}
}

func TestRetriesExhaustedReturnsLastStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.RetryAttempts = 2
	opts.RetryBackoff = time.Millisecond
	opts.RetryMaxBackoff = 5 * time.Millisecond

	client, err := NewClient(opts)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	resp, err := client.Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode != http.StatusBadGateway {
		t.Errorf("expected status 502, got %d", resp.StatusCode)
	}
	if resp.Body != nil {
		t.Error("expected nil body after exhausted retries")
	}
}

func TestProxyAppliesToPlainHTTPOnly(t *testing.T) {
	client, err := NewClient(Options{Proxy: "http://proxy.example:3128"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	transport := client.client.Transport.(*http.Transport)

	httpReq, _ := http.NewRequest(http.MethodGet, "http://example.com/file", nil)
	proxyURL, err := transport.Proxy(httpReq)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if proxyURL == nil || proxyURL.Host != "proxy.example:3128" {
		t.Errorf("expected proxy for http scheme, got %v", proxyURL)
	}

	httpsReq, _ := http.NewRequest(http.MethodGet, "https://example.com/file", nil)
	proxyURL, err = transport.Proxy(httpsReq)
	if err != nil {
		t.Fatalf("proxy func: %v", err)
	}
	if proxyURL != nil {
		t.Errorf("expected no proxy for https scheme, got %v", proxyURL)
	}
}

func TestInvalidProxyURL(t *testing.T) {
	if _, err := NewClient(Options{Proxy: "://bad"}); err == nil {
		t.Error("expected error for invalid proxy URL")
	}
}

func TestGetContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.RetryBackoff = time.Minute // force the retry loop into backoff

	client, err := NewClient(opts)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.Get(ctx, server.URL, nil); err == nil {
		t.Error("expected error when context expires during backoff")
	}
}
