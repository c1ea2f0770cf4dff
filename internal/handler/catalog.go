package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/campus-portal/internal/model"
	"github.com/sakif/campus-portal/internal/service"
)

// CatalogHandler serves the public browsing catalog and its admin write
// endpoints. Reads are unauthenticated; writes are mounted behind
// RequireAuth and RequireAdmin.
type CatalogHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

func NewCatalogHandler(catalog *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// HandleListColleges returns every college.
//
// HTTP: GET /api/colleges
func (h *CatalogHandler) HandleListColleges(w http.ResponseWriter, r *http.Request) {
	colleges, err := h.catalog.ListColleges(r.Context())
	if err != nil {
		h.logger.Error("catalog: listing colleges failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"colleges": colleges})
}

// HandleGetCollege returns one college with its programs.
//
// HTTP: GET /api/colleges/{id}
func (h *CatalogHandler) HandleGetCollege(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	college, programs, err := h.catalog.GetCollege(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"college": college, "programs": programs})
}

// HandleCreateCollege adds a college.
//
// HTTP: POST /api/admin/colleges
func (h *CatalogHandler) HandleCreateCollege(w http.ResponseWriter, r *http.Request) {
	var college model.College
	if err := json.NewDecoder(r.Body).Decode(&college); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	created, err := h.catalog.CreateCollege(r.Context(), &college)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"college": created})
}

// HandleUpdateCollege edits a college.
//
// HTTP: PUT /api/admin/colleges/{id}
func (h *CatalogHandler) HandleUpdateCollege(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var college model.College
	if err := json.NewDecoder(r.Body).Decode(&college); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	updated, err := h.catalog.UpdateCollege(r.Context(), id, &college)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"college": updated})
}

// HandleDeleteCollege removes a college and its programs.
//
// HTTP: DELETE /api/admin/colleges/{id}
func (h *CatalogHandler) HandleDeleteCollege(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteCollege(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "college deleted"})
}

// HandleListPrograms returns every program with its college names.
//
// HTTP: GET /api/majors
func (h *CatalogHandler) HandleListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.catalog.ListPrograms(r.Context())
	if err != nil {
		h.logger.Error("catalog: listing programs failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"programs": programs})
}

// HandleGetProgram returns one program.
//
// HTTP: GET /api/programs/{id}
func (h *CatalogHandler) HandleGetProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	program, err := h.catalog.GetProgram(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"program": program})
}

// HandleCreateProgram adds a program under a college.
//
// HTTP: POST /api/admin/programs
func (h *CatalogHandler) HandleCreateProgram(w http.ResponseWriter, r *http.Request) {
	var program model.Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	created, err := h.catalog.CreateProgram(r.Context(), &program)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"program": created})
}

// HandleUpdateProgram edits a program.
//
// HTTP: PUT /api/admin/programs/{id}
func (h *CatalogHandler) HandleUpdateProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var program model.Program
	if err := json.NewDecoder(r.Body).Decode(&program); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	updated, err := h.catalog.UpdateProgram(r.Context(), id, &program)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"program": updated})
}

// HandleDeleteProgram removes a program.
//
// HTTP: DELETE /api/admin/programs/{id}
func (h *CatalogHandler) HandleDeleteProgram(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProgram(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "program deleted"})
}

// HandleListEvents returns every campus event.
//
// HTTP: GET /api/events
func (h *CatalogHandler) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.catalog.ListEvents(r.Context())
	if err != nil {
		h.logger.Error("catalog: listing events failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}

// HandleGetEvent returns one event.
//
// HTTP: GET /api/events/{id}
func (h *CatalogHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	event, err := h.catalog.GetEvent(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": event})
}

// HandleCreateEvent adds an event.
//
// HTTP: POST /api/admin/events
func (h *CatalogHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var event model.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	created, err := h.catalog.CreateEvent(r.Context(), &event)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"event": created})
}

// HandleUpdateEvent edits an event.
//
// HTTP: PUT /api/admin/events/{id}
func (h *CatalogHandler) HandleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var event model.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	updated, err := h.catalog.UpdateEvent(r.Context(), id, &event)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"event": updated})
}

// HandleDeleteEvent removes an event.
//
// HTTP: DELETE /api/admin/events/{id}
func (h *CatalogHandler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.catalog.DeleteEvent(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "event deleted"})
}
