package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"port-customs-clearance/internal/catalog"
	"port-customs-clearance/internal/config"
	"port-customs-clearance/internal/domain"
	"port-customs-clearance/internal/registry"
	"port-customs-clearance/internal/workflow"
)

type Handler struct {
	cfg      config.Config
	catalog  *catalog.Catalog
	registry *registry.Registry
	flow     *workflow.Orchestrator
	blob     artifactStore
	store    pinger
}

type artifactStore interface {
	PutArtifact(ctx context.Context, bookingID, cargoID, documentName, filename string, content []byte) (string, error)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func NewHandler(cfg config.Config, cat *catalog.Catalog, reg *registry.Registry, flow *workflow.Orchestrator, blob artifactStore, store pinger) *Handler {
	return &Handler{cfg: cfg, catalog: cat, registry: reg, flow: flow, blob: blob, store: store}
}

type verifyRequest struct {
	AgencyKey    string `json:"agency_key"`
	DocumentType string `json:"document_type"`
}

type verifyResponse struct {
	IsValid bool           `json:"is_valid"`
	Agency  *domain.Agency `json:"agency,omitempty"`
}

type updateStatusRequest struct {
	AgencyKey    string `json:"agency_key"`
	BookingID    string `json:"booking_id"`
	CargoID      string `json:"cargo_id"`
	DocumentType string `json:"document_type"`
	Status       string `json:"status"`
	Comments     string `json:"comments,omitempty"`
}

type updateStatusResponse struct {
	Success          bool      `json:"success"`
	UpdatedBy        string    `json:"updated_by"`
	Timestamp        time.Time `json:"timestamp"`
	IsCustomsCleared bool      `json:"is_customs_cleared"`
	Unlocked         []string  `json:"unlocked,omitempty"`
}

type requirementsResponse struct {
	DocumentType         string   `json:"document_type"`
	RequiredDocuments    []string `json:"required_documents"`
	Agency               string   `json:"agency"`
	Category             string   `json:"category"`
	ProcessingTimeInDays int      `json:"processing_time_in_days"`
	Fees                 float64  `json:"fees"`
}

type registerCargoRequest struct {
	CargoID string `json:"cargo_id,omitempty"`
	HSCode  string `json:"hs_code"`
}

func (h *Handler) ListAgencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"agencies": h.registry.List()})
}

func (h *Handler) VerifyAgency(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	if req.AgencyKey == "" || req.DocumentType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "agency_key and document_type are required"})
		return
	}

	agency, err := h.registry.Authorize(req.AgencyKey, req.DocumentType)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]any{"is_valid": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{IsValid: true, Agency: agency})
}

func (h *Handler) UpdateDocumentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid json"})
		return
	}
	if req.AgencyKey == "" || req.BookingID == "" || req.CargoID == "" || req.DocumentType == "" || req.Status == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "agency_key, booking_id, cargo_id, document_type and status are required"})
		return
	}
	status, err := domain.ParseDocumentStatus(req.Status)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}

	result, err := h.flow.UpdateDocumentStatus(ctx, req.AgencyKey, req.BookingID, req.CargoID, req.DocumentType, status, req.Comments)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, updateStatusResponse{
		Success:          true,
		UpdatedBy:        result.UpdatedBy,
		Timestamp:        result.Timestamp,
		IsCustomsCleared: result.IsCustomsCleared,
		Unlocked:         result.Unlocked,
	})
}

func (h *Handler) DocumentRequirements(w http.ResponseWriter, r *http.Request, agencyKey string) {
	documentType := r.URL.Query().Get("documentType")
	if documentType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "documentType query parameter is required"})
		return
	}

	agency, ok := h.registry.Lookup(agencyKey)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown agency"})
		return
	}
	cat, ok := h.catalog.Classify(agency.CategoryPrefix)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown category"})
		return
	}
	doc, ok := cat.AgencyDocument(documentType)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "category " + cat.Name + " does not declare document " + documentType})
		return
	}

	writeJSON(w, http.StatusOK, requirementsResponse{
		DocumentType:         doc.Name,
		RequiredDocuments:    doc.Prerequisites,
		Agency:               agency.Name,
		Category:             cat.Name,
		ProcessingTimeInDays: doc.ProcessingTimeDays,
		Fees:                 doc.Fee,
	})
}

func (h *Handler) RegisterCargo(w http.ResponseWriter, r *http.Request, bookingID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req registerCargoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid json"})
		return
	}
	if req.HSCode == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "hs_code is required"})
		return
	}
	if req.CargoID == "" {
		req.CargoID = uuid.NewString()
	}

	state, err := h.flow.RegisterCargo(ctx, bookingID, req.CargoID, req.HSCode)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, state)
}

func (h *Handler) UploadCargoDocument(w http.ResponseWriter, r *http.Request, bookingID, cargoID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	if err := r.ParseMultipartForm(h.cfg.AllowedUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid multipart payload"})
		return
	}
	documentType := r.FormValue("documentType")
	if documentType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "documentType form field is required"})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "file form field is required"})
		return
	}
	defer file.Close()

	body, err := io.ReadAll(io.LimitReader(file, h.cfg.AllowedUploadBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "failed to read file"})
		return
	}
	if int64(len(body)) > h.cfg.AllowedUploadBytes {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "file exceeds size limit"})
		return
	}

	artifactRef, err := h.blob.PutArtifact(ctx, bookingID, cargoID, documentType, header.Filename, body)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "failed to store document"})
		return
	}

	state, err := h.flow.SubmitExporterDocument(ctx, bookingID, cargoID, documentType, artifactRef)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) GetCargoDocuments(w http.ResponseWriter, r *http.Request, bookingID, cargoID string) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	state, err := h.flow.CargoState(ctx, bookingID, cargoID)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.store.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// statusForError maps the workflow error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is an unexpected storage or programming
// failure and surfaces as a 500.
func statusForError(err error) int {
	var authErr *domain.AuthorizationError
	if errors.As(err, &authErr) {
		if authErr.InvalidCredential {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	}
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}
	var prereqErr *domain.PrerequisiteError
	if errors.As(err, &prereqErr) {
		return http.StatusUnprocessableEntity
	}
	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		return http.StatusNotFound
	}
	if errors.Is(err, domain.ErrConflict) {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
