package cause

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/lineboard/lineboard/internal/rest"
	log "github.com/sirupsen/logrus"
)

type CauseDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	AffectsTrs  bool   `json:"affectsTrs"`
	IsActive    bool   `json:"isActive"`
}

type CauseStatsDTO struct {
	CauseID              int    `json:"causeId"`
	Name                 string `json:"name"`
	AffectsTrs           bool   `json:"affectsTrs"`
	TotalDurationSeconds int    `json:"totalDurationSeconds"`
	StopCount            int    `json:"stopCount"`
}

type causeRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	AffectsTrs  *bool   `json:"affectsTrs"`
	IsActive    *bool   `json:"isActive"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service}
}

func (h *Handler) ListCauses(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query := r.URL.Query()
	pagination := rest.ParsePagination(query, 100, 1000)
	filter := ListFilter{
		Search:     strings.TrimSpace(query.Get("search")),
		IsActive:   rest.ParseBoolParam(query, "isActive"),
		AffectsTrs: rest.ParseBoolParam(query, "affectsTrs"),
		Page:       pagination.Page,
		Limit:      pagination.Limit,
	}

	causes, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	items := make([]CauseDTO, 0, len(causes))
	for _, c := range causes {
		items = append(items, causeToDTO(c))
	}

	response := rest.PaginatedResponse[CauseDTO]{
		Items: items,
		Total: total,
		Page:  pagination.Page,
		Limit: pagination.Limit,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetCause(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["causeId"])
	if err != nil {
		writeBadRequest(w, "Invalid cause id", "cause id must be an integer")
		return
	}

	found, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCauseNotFound) {
			http.Error(w, "Cause not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(causeToDTO(found)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) CreateCause(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Trace("Creating new cause")

	var request causeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	newCause := Cause{AffectsTrs: true, IsActive: true}
	if request.Name != nil {
		newCause.Name = *request.Name
	}
	if request.Description != nil {
		newCause.Description = *request.Description
	}
	if request.AffectsTrs != nil {
		newCause.AffectsTrs = *request.AffectsTrs
	}
	if request.IsActive != nil {
		newCause.IsActive = *request.IsActive
	}

	created, err := h.service.Create(r.Context(), newCause)
	if err != nil {
		if errors.Is(err, ErrInvalidCause) || errors.Is(err, ErrCauseNameTaken) {
			writeBadRequest(w, err.Error(), "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(causeToDTO(created)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) UpdateCause(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	id, err := strconv.Atoi(mux.Vars(r)["causeId"])
	if err != nil {
		writeBadRequest(w, "Invalid cause id", "cause id must be an integer")
		return
	}

	var request causeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeBadRequest(w, "Invalid request body format", "")
		return
	}

	updated, err := h.service.Update(r.Context(), id, Update{
		Name:        request.Name,
		Description: request.Description,
		AffectsTrs:  request.AffectsTrs,
		IsActive:    request.IsActive,
	})
	if err != nil {
		if errors.Is(err, ErrCauseNotFound) {
			http.Error(w, "Cause not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrInvalidCause) || errors.Is(err, ErrCauseNameTaken) {
			writeBadRequest(w, err.Error(), "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewEncoder(w).Encode(causeToDTO(updated)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query := r.URL.Query()
	from, err := rest.ParseDateParam(query, "from")
	if err != nil {
		writeBadRequest(w, "Invalid from date", err.Error())
		return
	}
	to, err := rest.ParseDateParam(query, "to")
	if err != nil {
		writeBadRequest(w, "Invalid to date", err.Error())
		return
	}

	stats, err := h.service.StatsPerCause(r.Context(), from, to, query.Get("shift"))
	if err != nil {
		if errors.Is(err, rest.ErrInvalidRange) {
			writeBadRequest(w, err.Error(), "")
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	response := make([]CauseStatsDTO, 0, len(stats))
	for _, row := range stats {
		response = append(response, CauseStatsDTO{
			CauseID:              row.CauseID,
			Name:                 row.Name,
			AffectsTrs:           row.AffectsTrs,
			TotalDurationSeconds: row.TotalDurationSeconds,
			StopCount:            row.StopCount,
		})
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func causeToDTO(c Cause) CauseDTO {
	return CauseDTO{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		AffectsTrs:  c.AffectsTrs,
		IsActive:    c.IsActive,
	}
}

func writeBadRequest(w http.ResponseWriter, message, details string) {
	w.WriteHeader(http.StatusBadRequest)
	encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
		Error:   message,
		Details: details,
	})
	if encodeErr != nil {
		http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
	}
}
