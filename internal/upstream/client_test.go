package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_Fetch(t *testing.T) {
	var gotUA, gotXHR, gotReferer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotXHR = r.Header.Get("X-Requested-With")
		gotReferer = r.Header.Get("Referer")
		w.Write([]byte(`{"status":true}`))
	}))
	defer srv.Close()

	c := New(srv.Client(), WithUserAgent("TestAgent/1.0"))

	t.Run("ajax_headers", func(t *testing.T) {
		body, err := c.Fetch(context.Background(), srv.URL+"/ajax", c.AjaxHeaders())
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if string(body) != `{"status":true}` {
			t.Errorf("body = %q", body)
		}
		if gotUA != "TestAgent/1.0" || gotXHR != "XMLHttpRequest" {
			t.Errorf("headers: ua=%q xhr=%q", gotUA, gotXHR)
		}
	})

	t.Run("custom_headers_keep_default_agent", func(t *testing.T) {
		h := http.Header{}
		h.Set("Referer", "https://embed.example/")
		if _, err := c.Fetch(context.Background(), srv.URL, h); err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if gotReferer != "https://embed.example/" {
			t.Errorf("referer = %q", gotReferer)
		}
		if gotUA != "TestAgent/1.0" {
			t.Errorf("user agent should default to client agent, got %q", gotUA)
		}
	})
}

func TestClient_Fetch_status_error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := New(srv.Client())
	_, err := c.Fetch(context.Background(), srv.URL+"/x", nil)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusForbidden || se.URL != srv.URL+"/x" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestClient_Fetch_body_limit(t *testing.T) {
	var size atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("#", int(size.Load()))))
	}))
	defer srv.Close()

	c := New(srv.Client(), WithMaxBodySize(16))

	size.Store(16)
	body, err := c.Fetch(context.Background(), srv.URL, nil)
	if err != nil || len(body) != 16 {
		t.Fatalf("body at limit: len=%d err=%v", len(body), err)
	}

	size.Store(17)
	body, err = c.Fetch(context.Background(), srv.URL, nil)
	if !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
	if body != nil {
		t.Errorf("truncated body returned: %q", body)
	}
}

func TestClient_Fetch_transport_error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(&http.Client{Timeout: time.Second})
	if _, err := c.Fetch(context.Background(), url, nil); err == nil {
		t.Error("expected error for closed server")
	}
}

func TestClient_Fetch_through_prefix_proxy(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Write([]byte("proxied"))
	}))
	defer srv.Close()

	policy := NewProxyPolicy(srv.URL+"/proxy/?quest=", []string{"anime.example"})
	c := New(srv.Client(), WithProxyPolicy(policy))

	body, err := c.Fetch(context.Background(), "https://anime.example/home", nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(body) != "proxied" {
		t.Errorf("body = %q", body)
	}
	if !strings.HasPrefix(gotPath, "/proxy/?quest=https://anime.example/home") {
		t.Errorf("proxy request URI = %q", gotPath)
	}
}

func TestNewHTTPClient(t *testing.T) {
	c, err := NewHTTPClient(0, "")
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	if c.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", c.Timeout, DefaultTimeout)
	}

	c, err = NewHTTPClient(3*time.Second, "127.0.0.1:1080")
	if err != nil {
		t.Fatalf("NewHTTPClient socks5: %v", err)
	}
	tr, ok := c.Transport.(*http.Transport)
	if !ok || tr.DialContext == nil {
		t.Error("SOCKS5 client should install a DialContext")
	}
}

func TestParseHeaderList(t *testing.T) {
	h := ParseHeaderList("Origin: https://a.example ; Accept: */* ;garbage; : empty")
	if h.Get("Origin") != "https://a.example" {
		t.Errorf("Origin = %q", h.Get("Origin"))
	}
	if h.Get("Accept") != "*/*" {
		t.Errorf("Accept = %q", h.Get("Accept"))
	}
	if len(h) != 2 {
		t.Errorf("expected 2 headers, got %v", h)
	}
}
