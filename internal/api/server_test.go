package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zakaut/zakaut/internal/model"
	"github.com/zakaut/zakaut/internal/pipeline"
)

func newTestServer(t *testing.T, apiKey string) *Server {
	t.Helper()
	cfg := model.DefaultConfig()
	cfg.Server.APIKey = apiKey
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(pipeline.NewPipeline(cfg), log, cfg)
}

func multipartUpload(t *testing.T, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"ok"`)) {
		t.Errorf("Unexpected body: %s", rec.Body.String())
	}
}

func TestServer_Auth(t *testing.T) {
	srv := newTestServer(t, "secret")

	body, contentType := multipartUpload(t, map[string]string{
		"policy.txt": "זכאי המבוטח להחזר הוצאות אשפוז בבית חולים בישראל.",
	})

	// Missing token
	req := httptest.NewRequest(http.MethodPost, "/api/runs", bytes.NewReader(body.Bytes()))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rec.Code)
	}

	// Wrong token
	req = httptest.NewRequest(http.MethodPost, "/api/runs", bytes.NewReader(body.Bytes()))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong token, got %d", rec.Code)
	}

	// Valid token
	req = httptest.NewRequest(http.MethodPost, "/api/runs", bytes.NewReader(body.Bytes()))
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer secret")
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid token, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestServer_Run(t *testing.T) {
	srv := newTestServer(t, "")

	body, contentType := multipartUpload(t, map[string]string{
		"policy.txt": "פוליסה לביטוח בריאות\n\nסעיף 12. זכאי המבוטח להחזר הוצאות אשפוז בבית חולים בישראל.",
		"image.png":  "not a document",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/runs?source=test", bytes.NewReader(body.Bytes()))
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report model.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}

	if len(report.Documents) != 1 {
		t.Fatalf("Expected 1 document, got %d", len(report.Documents))
	}
	if len(report.Benefits) == 0 {
		t.Fatal("Expected benefits in the report")
	}

	// The unsupported upload shows up as a warning, not an error
	found := false
	for _, w := range report.Metrics.Warnings {
		if bytes.Contains([]byte(w), []byte("image.png")) {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected skip warning for image.png, got %v", report.Metrics.Warnings)
	}
}

func TestServer_Run_NoFiles(t *testing.T) {
	srv := newTestServer(t, "")

	body, contentType := multipartUpload(t, map[string]string{})

	req := httptest.NewRequest(http.MethodPost, "/api/runs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestServer_Run_NoReadableDocuments(t *testing.T) {
	srv := newTestServer(t, "")

	body, contentType := multipartUpload(t, map[string]string{
		"image.png": "binary",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/runs", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected 422, got %d", rec.Code)
	}
}
