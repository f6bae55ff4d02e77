package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/engine"
	"github.com/dgallion1/docoutline/internal/parser"
)

// errTooLarge marks an upload over the configured size limit.
var errTooLarge = errors.New("file too large")

// handleOutline analyzes one upload synchronously and returns its
// structure, plus diagnostics when ?diagnostics=true.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
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

	filename, data, status, err := s.readUpload(header.Filename, file)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	a, err := s.orchestrator.Worker().Analyze(bytes.NewReader(data), filename)
	if err != nil {
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		s.log.Error("analysis failed", "filename", filename, "error", err)
		jsonError(w, "analysis failed", http.StatusInternalServerError)
		return
	}

	writeAnalysis(w, r, a)
}

// readUpload sanitizes the filename and reads at most MaxUploadBytes. The
// returned status is meaningful only when err is non-nil.
func (s *Server) readUpload(name string, f multipart.File) (string, []byte, int, error) {
	filename := sanitizeFilename(name)
	if !parser.IsSupportedExtension(filename) {
		return filename, nil, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return filename, nil, http.StatusInternalServerError, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return filename, nil, http.StatusRequestEntityTooLarge, fmt.Errorf("%w: exceeds max size (%d bytes)", errTooLarge, s.cfg.MaxUploadBytes)
	}
	return filename, data, http.StatusOK, nil
}

// writeAnalysis encodes before writing so an unencodable result becomes a
// 500 instead of a truncated 200.
func writeAnalysis(w http.ResponseWriter, r *http.Request, a engine.Analysis) {
	var v any = a.Structure
	if r.URL.Query().Get("diagnostics") == "true" {
		v = a
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		jsonError(w, "encode result: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(buf.Bytes())
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
