package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/zakaut/zakaut/internal/intake"
	"github.com/zakaut/zakaut/internal/model"
)

// handleRun accepts a multipart upload of policy documents, runs the
// extraction pipeline over them, and returns the full report.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	maxUpload := s.cfg.Intake.MaxFileBytes
	if maxUpload <= 0 {
		maxUpload = 20_000_000
	}

	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, maxUpload*10+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")
	if source == "" {
		source = "upload"
	}

	var docs []model.Document
	var skipped []string
	for _, fh := range files {
		filename := sanitizeFilename(fh.Filename)
		if !intake.IsSupportedExtension(filename) {
			skipped = append(skipped, fmt.Sprintf("%s: unsupported file type %s", filename, filepath.Ext(filename)))
			continue
		}

		f, err := fh.Open()
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: failed to open", filename))
			continue
		}

		doc, err := intake.FromReader(io.LimitReader(f, maxUpload), filename)
		f.Close()
		if err != nil {
			skipped = append(skipped, fmt.Sprintf("%s: %v", filename, err))
			continue
		}
		docs = append(docs, *doc)
	}

	if len(docs) == 0 {
		jsonError(w, "no readable documents in upload", http.StatusUnprocessableEntity)
		return
	}

	result, err := s.pipeline.RunDocuments(r.Context(), source, docs)
	if err != nil {
		s.log.Error("run failed", "source", source, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	report := result.Report
	report.Metrics.Warnings = append(report.Metrics.Warnings, skipped...)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(report); err != nil {
		s.log.Error("encode report", "error", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
