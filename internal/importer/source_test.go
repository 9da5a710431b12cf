package importer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// BOM handling
// ---------------------------------------------------------------------------

func TestBOMSkippingReader(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips UTF-8 BOM",
			input: "\xEF\xBB\xBFname,price",
			want:  "name,price",
		},
		{
			name:  "passes through without BOM",
			input: "name,price",
			want:  "name,price",
		},
		{
			name:  "BOM only yields empty stream",
			input: "\xEF\xBB\xBF",
			want:  "",
		},
		{
			name:  "input shorter than BOM",
			input: "ab",
			want:  "ab",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "partial BOM bytes are data",
			input: "\xEF\xBBx",
			want:  "\xEF\xBBx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newBOMSkippingReader(strings.NewReader(tt.input))
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBOMSkippingReaderSmallBuffer(t *testing.T) {
	// Single-byte reads must still drain the lookahead buffer correctly.
	r := newBOMSkippingReader(strings.NewReader("abcdef"))

	var out []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
	}

	if string(out) != "abcdef" {
		t.Errorf("got %q, want %q", out, "abcdef")
	}
}

func TestCountingReader(t *testing.T) {
	cr := &countingReader{reader: strings.NewReader("hello world")}
	if _, err := io.ReadAll(cr); err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if cr.bytesRead != 11 {
		t.Errorf("bytesRead = %d, want 11", cr.bytesRead)
	}
}

// ---------------------------------------------------------------------------
// DriveSource
// ---------------------------------------------------------------------------

// testTransport rewrites every request to the test server so DriveSource
// can be exercised without reaching Google.
type testTransport struct {
	server *httptest.Server
	gotURL string
}

func (t *testTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.gotURL = req.URL.String()
	redirected := *req
	u := *req.URL
	su := t.server.URL
	u.Scheme = "http"
	u.Host = strings.TrimPrefix(su, "http://")
	redirected.URL = &u
	return http.DefaultTransport.RoundTrip(&redirected)
}

func TestDriveSourceOpen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("header\nrow"))
	}))
	defer srv.Close()

	tr := &testTransport{server: srv}
	src := &DriveSource{Client: &http.Client{Transport: tr}}

	body, err := src.Open(context.Background(), "sheet-123")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if string(data) != "header\nrow" {
		t.Errorf("body = %q, want %q", data, "header\nrow")
	}

	want := "https://docs.google.com/spreadsheets/d/sheet-123/export?format=csv"
	if tr.gotURL != want {
		t.Errorf("request URL = %q, want %q", tr.gotURL, want)
	}
}

func TestDriveSourceOpenNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	src := &DriveSource{Client: &http.Client{Transport: &testTransport{server: srv}}}

	_, err := src.Open(context.Background(), "missing-sheet")
	if err == nil {
		t.Fatal("Open() expected error for 404 response")
	}
	if !strings.Contains(err.Error(), "missing-sheet") {
		t.Errorf("error should name the sheet id: %v", err)
	}
}
