package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGetSendsBrowserHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewRestyClient(2 * time.Second)
	resp, err := c.Get(context.Background(), srv.URL, BrowserHeaders(""))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(resp.Body()) != "ok" {
		t.Errorf("unexpected body %q", resp.Body())
	}
	if got.Get("User-Agent") != DefaultUserAgent {
		t.Errorf("unexpected user agent %q", got.Get("User-Agent"))
	}
	if got.Get("Accept-Language") == "" || got.Get("Accept") == "" {
		t.Errorf("expected Accept and Accept-Language headers, got %v", got)
	}
}

func TestGetTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewRestyClient(50 * time.Millisecond)
	if _, err := c.Get(context.Background(), srv.URL, nil); err == nil {
		t.Fatal("expected timeout error")
	}
}
