package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/londailey6937/QuillPilot-Native-sub003/internal/parser"
)

// handleImport accepts a manuscript file upload, parses it into text plus
// outline, and opens an editing session for it.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	p, err := parser.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if pp, ok := p.(*parser.PDFParser); ok {
		pp.FallbackPdftotext = s.cfg.PDFFallbackPdftotext
	}

	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		s.log.Error("import parse failed", "filename", filename, "error", err)
		jsonError(w, "parse failed: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = doc.Title
	}

	sess := s.openSession(title, doc.Text, doc.Outline)
	s.log.Info("manuscript imported",
		"manuscript_id", sess.ID,
		"filename", filename,
		"bytes", len(doc.Text),
		"outline_entries", len(doc.Outline),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"manuscript_id": sess.ID,
		"title":         title,
		"outline":       doc.Outline,
		"result_url":    fmt.Sprintf("/api/manuscripts/%s/result", sess.ID),
	})
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
