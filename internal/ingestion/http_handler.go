package ingestion

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flowlogic/ingest/internal/domain"
	"github.com/flowlogic/ingest/internal/repository"
	"github.com/flowlogic/ingest/internal/storage"
)

// MaxUploadBytes caps uploaded files at 50MB.
const MaxUploadBytes = 50 << 20

var allowedExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
	".json": true,
}

// Handler exposes the ingestion endpoints: upload, history, mapping
// introspection, and scheduled pulls.
type Handler struct {
	service *Service
	store   *storage.DiskStore
	mux     *http.ServeMux
}

// NewHTTPHandler mounts the ingestion routes. The disk store may be nil, in
// which case uploads are not retained on disk.
func NewHTTPHandler(service *Service, store *storage.DiskStore) http.Handler {
	h := &Handler{service: service, store: store, mux: http.NewServeMux()}
	h.mux.HandleFunc("/api/ingestion/upload", h.handleUpload)
	h.mux.HandleFunc("/api/ingestion/history", h.handleHistory)
	h.mux.HandleFunc("/api/ingestion/mappings", h.handleMappings)
	h.mux.HandleFunc("/api/ingestion/schedule", h.handleSchedule)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	// Headroom above the file cap covers multipart framing; the file itself
	// is checked against MaxUploadBytes below.
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data", err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded", "")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("File type %s not supported. Use: .csv, .xlsx, .xls, .json", ext), "")
		return
	}
	if header.Size > MaxUploadBytes {
		writeError(w, http.StatusBadRequest, "File exceeds the 50MB limit", "")
		return
	}

	dataTypeRaw := formValueDefault(r, "dataType", string(domain.DataTypeInventorySnapshot))
	dataType, ok := domain.ParseDataType(dataTypeRaw)
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown data type %q", dataTypeRaw), "")
		return
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file", err.Error())
		return
	}

	var storagePath string
	if h.store != nil {
		storagePath, err = h.store.Save(header.Filename, payload)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to store file", err.Error())
			return
		}
	}

	result, err := h.service.Ingest(r.Context(), Request{
		FileName:     header.Filename,
		StoragePath:  storagePath,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		DataType:     dataType,
		SourceSystem: formValueDefault(r, "mappingType", domain.SourceSystemGeneric),
		Source:       formValueDefault(r, "source", "manual"),
		Data:         bytes.NewReader(payload),
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	filter := repository.IngestionRunFilter{
		Limit:  intQueryDefault(r, "limit", 50),
		Offset: intQueryDefault(r, "offset", 0),
	}
	if raw := r.URL.Query().Get("dataType"); raw != "" {
		dataType, ok := domain.ParseDataType(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown data type %q", raw), "")
			return
		}
		filter.DataType = &dataType
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.IngestionStatus(raw)
		filter.Status = &status
	}

	runs, err := h.service.History(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch ingestion history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

func (h *Handler) handleMappings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"dataTypes": domain.AllDataTypes(),
		"mappings":  h.service.Registry().Mappings(),
	})
}

type scheduleRequest struct {
	Name             string          `json:"name"`
	Source           string          `json:"source"`
	ConnectionConfig json.RawMessage `json:"connectionConfig"`
	Schedule         string          `json:"schedule"`
	DataType         string          `json:"dataType"`
	MappingType      string          `json:"mappingType"`
}

func (h *Handler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "")
		return
	}

	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	job, err := h.service.Schedule(r.Context(), domain.ScheduledIngestion{
		Name:             req.Name,
		Source:           req.Source,
		ConnectionConfig: string(req.ConnectionConfig),
		Schedule:         req.Schedule,
		DataType:         domain.DataType(req.DataType),
		MappingType:      req.MappingType,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "job": job})
}

// writeServiceError maps the error taxonomy onto HTTP statuses: bad
// configuration is the caller's fault, parse and persistence failures are
// reported as processing errors with details attached.
func writeServiceError(w http.ResponseWriter, err error) {
	var configErr *ConfigurationError
	if errors.As(err, &configErr) {
		writeError(w, http.StatusBadRequest, configErr.Reason, "")
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to process file", err.Error())
}

func formValueDefault(r *http.Request, key, fallback string) string {
	if value := strings.TrimSpace(r.FormValue(key)); value != "" {
		return value
	}
	return fallback
}

func intQueryDefault(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	body := map[string]string{"error": message}
	if details != "" {
		body["details"] = details
	}
	writeJSON(w, status, body)
}
