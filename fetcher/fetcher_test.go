package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{Interval: time.Millisecond, Timeout: 5 * time.Second}
}

func TestNewAppliesDefaults(t *testing.T) {
	t.Parallel()

	f := New(Config{})
	if f.gate.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", f.gate.interval, DefaultInterval)
	}
	if f.timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", f.timeout, DefaultTimeout)
	}
}

func TestFetchSendsConfiguredUserAgent(t *testing.T) {
	t.Parallel()

	const ua = "probe-agent/1.0"
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.UserAgent = ua
	f := New(cfg)
	if _, err := f.Fetch(context.Background(), ts.URL); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if got != ua {
		t.Errorf("User-Agent = %q, want %q", got, ua)
	}
}

func TestFetchClassifiesHTTPStatus(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	f := New(testConfig())
	_, err := f.Fetch(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("Fetch() expected error for 404 response")
	}
	status, ok := HTTPStatus(err)
	if !ok || status != http.StatusNotFound {
		t.Errorf("HTTPStatus(err) = (%d, %v), want (404, true)", status, ok)
	}
	if IsTimeout(err) {
		t.Error("IsTimeout(err) = true for a status error")
	}
}

func TestFetchClassifiesTimeout(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.Timeout = 30 * time.Millisecond
	f := New(cfg)
	_, err := f.Fetch(context.Background(), ts.URL)
	if err == nil {
		t.Fatal("Fetch() expected timeout error")
	}
	if !IsTimeout(err) {
		t.Errorf("IsTimeout(err) = false, err = %v", err)
	}
}

func TestFetchClassifiesTransport(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	f := New(testConfig())
	_, err := f.Fetch(context.Background(), url)
	if err == nil {
		t.Fatal("Fetch() expected error against closed server")
	}
	if !IsTransport(err) {
		t.Errorf("IsTransport(err) = false, err = %v", err)
	}
}

func TestFailedFetchStillHoldsItsSlot(t *testing.T) {
	t.Parallel()

	const interval = 60 * time.Millisecond
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	cfg := testConfig()
	cfg.Interval = interval
	f := New(cfg)

	start := time.Now()
	if _, err := f.Fetch(context.Background(), ts.URL); err == nil {
		t.Fatal("first Fetch() expected status error")
	}
	if _, err := f.Fetch(context.Background(), ts.URL); err == nil {
		t.Fatal("second Fetch() expected status error")
	}
	if elapsed := time.Since(start); elapsed < interval {
		t.Errorf("two fetches finished in %v, want at least %v between starts", elapsed, interval)
	}
}

func TestDecodedBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        []byte
		want        string
		wantErr     bool
	}{
		{
			name:        "utf-8 passthrough",
			contentType: "text/html; charset=utf-8",
			body:        []byte("xin chào"),
			want:        "xin chào",
		},
		{
			name:        "no charset assumes utf-8",
			contentType: "text/html",
			body:        []byte("plain"),
			want:        "plain",
		},
		{
			name:        "latin-1 decoded",
			contentType: "text/html; charset=iso-8859-1",
			body:        []byte("caf\xe9"),
			want:        "café",
		},
		{
			name:        "gbk decoded",
			contentType: "text/html; charset=gbk",
			body:        []byte("\xc4\xe3\xba\xc3"),
			want:        "你好",
		},
		{
			name:        "unknown charset",
			contentType: "text/html; charset=martian",
			body:        []byte("x"),
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &Page{ContentType: tt.contentType, Body: tt.body}
			got, err := p.DecodedBody()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("DecodedBody() expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodedBody() error: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("DecodedBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocumentParsesHTML(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><h1 class="probe">Tiêu đề</h1></body></html>`))
	}))
	defer ts.Close()

	f := New(testConfig())
	doc, err := f.Document(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	if got := doc.Find("h1.probe").Text(); got != "Tiêu đề" {
		t.Errorf("parsed heading = %q, want %q", got, "Tiêu đề")
	}
}
