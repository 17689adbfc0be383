package web

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KaramelBytes/alsobought-cli/internal/orders"
	"github.com/KaramelBytes/alsobought-cli/internal/pipeline"
)

const fixtureCSV = `Buyer,Item Name,Quantity
Alice (alice),Mug,1
Alice (alice),Tea,2
Bob (bob),Mug,2
Bob (bob),Tea,4
Carol (carol),Mug,1
Carol (carol),Spoon,1
Dan (dan),Tea,1
`

func newTestServer(t *testing.T, maxBytes int64) *httptest.Server {
	t.Helper()
	s := NewServer(Config{
		Orders:         orders.DefaultOptions(),
		Pipeline:       pipeline.DefaultOptions(),
		MaxUploadBytes: maxBytes,
	}, nil)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func noRedirect(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }

func upload(t *testing.T, ts *httptest.Server, name, content string) *http.Response {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = io.WriteString(fw, content)
	_ = mw.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/datasets", &body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	client := &http.Client{CheckRedirect: noRedirect}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func uploadFixture(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	resp := upload(t, ts, "orders.csv", fixtureCSV)
	if resp.StatusCode != http.StatusSeeOther {
		b, _ := io.ReadAll(resp.Body)
		t.Fatalf("upload status = %d: %s", resp.StatusCode, b)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/datasets/") {
		t.Fatalf("unexpected redirect %q", loc)
	}
	return loc
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, 0)
	status, body := get(t, ts.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(body, `name="file"`) || strings.Contains(body, "<select") {
		t.Fatalf("index should only offer the upload form: %s", body)
	}
}

func TestUploadAndSelect(t *testing.T) {
	ts := newTestServer(t, 0)
	loc := uploadFixture(t, ts)

	status, body := get(t, ts.URL+loc)
	if status != http.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}
	if !strings.Contains(body, `<option value="Mug" selected>`) {
		t.Fatalf("top item should be preselected: %s", body)
	}
	if !strings.Contains(body, "86.60%") || !strings.Contains(body, "-50.00%") {
		t.Fatalf("expected Tea and Spoon correlations for Mug: %s", body)
	}
	if strings.Contains(body, "Dan") {
		t.Fatalf("one-time buyer leaked into page: %s", body)
	}

	status, body = get(t, ts.URL+loc+"?item=Tea")
	if status != http.StatusOK || !strings.Contains(body, `<option value="Tea" selected>`) {
		t.Fatalf("item selection not honoured (%d): %s", status, body)
	}

	status, body = get(t, ts.URL+loc+"?item=Nope")
	if status != http.StatusNotFound || !strings.Contains(body, "item not in purchase matrix") {
		t.Fatalf("unknown item: status = %d: %s", status, body)
	}
}

func TestRecommendationsAPI(t *testing.T) {
	ts := newTestServer(t, 0)
	loc := uploadFixture(t, ts)

	status, body := get(t, ts.URL+loc+"/recommendations?item=Tea&k=1")
	if status != http.StatusOK {
		t.Fatalf("status = %d: %s", status, body)
	}
	var doc recommendationsResponse
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Item != "Tea" || len(doc.Recommendations) != 1 || doc.Recommendations[0].Item != "Mug" {
		t.Fatalf("unexpected response: %+v", doc)
	}

	if status, _ := get(t, ts.URL+loc+"/recommendations?item=Nope"); status != http.StatusNotFound {
		t.Fatalf("unknown item status = %d", status)
	}
	if status, _ := get(t, ts.URL+loc+"/recommendations?k=zero"); status != http.StatusBadRequest {
		t.Fatalf("bad k status = %d", status)
	}
	status, body = get(t, ts.URL+"/datasets/missing/recommendations")
	if status != http.StatusNotFound || !strings.Contains(body, `"not_found"`) {
		t.Fatalf("unknown dataset: %d %s", status, body)
	}
}

func TestUploadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		status  int
		want    string
	}{
		{"missing column", "orders.csv", "Customer,Item Name,Quantity\nA (a),Mug,1\n", http.StatusBadRequest, "Available columns"},
		{"bad quantity", "orders.csv", "Buyer,Item Name,Quantity\nA (a),Mug,lots\n", http.StatusBadRequest, "lots"},
		{"no repeat buyers", "orders.csv", "Buyer,Item Name,Quantity\nA (a),Mug,1\nB (b),Tea,1\n", http.StatusUnprocessableEntity, "no buyer with repeat orders"},
		{"unsupported", "orders.pdf", "%PDF", http.StatusBadRequest, "unsupported"},
	}
	ts := newTestServer(t, 0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := upload(t, ts, tt.file, tt.content)
			b, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != tt.status || !strings.Contains(string(b), tt.want) {
				t.Fatalf("status = %d, want %d, body: %s", resp.StatusCode, tt.status, b)
			}
		})
	}
}

func TestUploadTooLarge(t *testing.T) {
	ts := newTestServer(t, 64)
	resp := upload(t, ts, "orders.csv", fixtureCSV)
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", resp.StatusCode)
	}
}

func TestUnknownDatasetPage(t *testing.T) {
	ts := newTestServer(t, 0)
	status, body := get(t, ts.URL+"/datasets/3f0e0c9a-0000-0000-0000-000000000000")
	if status != http.StatusNotFound || !strings.Contains(body, "expired") {
		t.Fatalf("status = %d: %s", status, body)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, 0)
	if status, body := get(t, ts.URL+"/healthz"); status != http.StatusOK || body != "ok\n" {
		t.Fatalf("healthz: %d %q", status, body)
	}
	_ = uploadFixture(t, ts)
	status, body := get(t, ts.URL+"/metrics")
	if status != http.StatusOK {
		t.Fatalf("metrics status = %d", status)
	}
	for _, name := range []string{"alsobought_http_requests_total", "alsobought_pipeline_runs_total"} {
		if !strings.Contains(body, name) {
			t.Errorf("metrics missing %s", name)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	ts := newTestServer(t, 0)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}
