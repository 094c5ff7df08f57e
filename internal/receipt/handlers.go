package receipt

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"receiptscan/internal/extraction"
)

// maxUploadSize caps the multipart form size for receipt uploads.
const maxUploadSize = int64(10 << 20) // 10MB

// isClientFault reports whether an extraction failure is the caller's fault
// (bad upload or unusable model output) as opposed to an upstream or storage
// failure. This is the only place internal errors are sorted into the two
// externally visible categories.
func isClientFault(err error) bool {
	var fieldErr *extraction.FieldError
	switch {
	case errors.Is(err, ErrInvalidFileType),
		errors.Is(err, extraction.ErrEmptyResponse),
		errors.Is(err, extraction.ErrMalformedResponse),
		errors.As(err, &fieldErr):
		return true
	}
	return false
}

// writeMessage writes a JSON {"message": ...} body with the given status
func writeMessage(w http.ResponseWriter, status int, message string) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"message": message,
	})
}

// writeJSON writes a 200 JSON response
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// handleIndex serves the HTML interface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleExtractReceipt handles receipt upload and extraction
func (s *Server) handleExtractReceipt(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		writeMessage(w, http.StatusBadRequest, "error parsing form")
		return
	}

	f, header, err := r.FormFile("image")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "no image file provided")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		slog.Error("Error reading file data", "error", err, "filename", header.Filename)
		writeMessage(w, http.StatusInternalServerError, "error reading file")
		return
	}

	mimeType := mimeTypeFor(header.Header.Get("Content-Type"), header.Filename)

	receipt, err := s.service.ExtractReceipt(r.Context(), header.Filename, data, mimeType)
	if err != nil {
		status := http.StatusInternalServerError
		if isClientFault(err) {
			status = http.StatusBadRequest
		} else {
			slog.Error("Error extracting receipt", "filename", header.Filename, "error", err)
		}
		writeMessage(w, status, err.Error())
		return
	}

	writeJSON(w, receipt)
}

// mimeTypeFor normalizes the uploaded content type, falling back to the file
// extension when the client sent none.
func mimeTypeFor(contentType, filename string) string {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType != "" {
		return mimeType
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// handleGetReceipt returns a single receipt
func (s *Server) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeMessage(w, http.StatusBadRequest, "receipt ID required")
		return
	}
	receipt, err := s.service.GetReceipt(id)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "receipt not found")
		return
	}

	writeJSON(w, receipt)
}

// handleListReceipts returns a list of all receipts
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	receipts, err := s.service.ListReceipts()
	if err != nil {
		slog.Error("Error listing receipts", "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, receipts)
}

// handleGetImage serves a stored receipt image
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	data, err := s.service.GetImage(name)
	if err != nil {
		writeMessage(w, http.StatusNotFound, "image not found")
		return
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		w.Header().Set("Content-Type", "image/jpeg")
	case ".png":
		w.Header().Set("Content-Type", "image/png")
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Write(data)
}

// handleStaticCSS serves the CSS file
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "text/css")
	w.Write(appCSS)
}

// handleStaticJS serves the JavaScript file
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}
