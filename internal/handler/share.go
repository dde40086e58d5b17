package handler

import (
	"log/slog"
	"net/http"

	"classfolio/internal/domain/services"
	"classfolio/internal/httputil"
)

// ShareHandler handles share link HTTP requests
type ShareHandler struct {
	shareService services.ShareService
	logger       *slog.Logger
}

// NewShareHandler creates a new share handler
func NewShareHandler(shareService services.ShareService, logger *slog.Logger) *ShareHandler {
	return &ShareHandler{
		shareService: shareService,
		logger:       logger,
	}
}

// UpsertShareLink creates or replaces a project's share link
// PUT /api/projects/{id}/share
func (h *ShareHandler) UpsertShareLink(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	projectID, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	var req services.UpsertShareLinkRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	link, err := h.shareService.UpsertShareLink(r.Context(), projectID, userID, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, link)
}

// GetShareLink retrieves a project's share link
// GET /api/projects/{id}/share
func (h *ShareHandler) GetShareLink(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	projectID, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	link, err := h.shareService.GetShareLink(r.Context(), projectID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, link)
}

// RevokeShareLink removes a project's share link
// DELETE /api/projects/{id}/share
func (h *ShareHandler) RevokeShareLink(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	projectID, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	if err := h.shareService.RevokeShareLink(r.Context(), projectID, userID); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResolveSlug resolves a public share slug into the read-only project view.
// Anonymous access is allowed; a viewer identity, when present, comes from
// an optional bearer token. The PIN travels as a query parameter.
// GET /api/share/{slug}
func (h *ShareHandler) ResolveSlug(w http.ResponseWriter, r *http.Request) {
	slug, err := pathID(r, "slug")
	if err != nil {
		handleError(w, err)
		return
	}

	pin := r.URL.Query().Get("pin")
	viewerID := httputil.GetUserID(r)

	view, err := h.shareService.ResolveSlug(r.Context(), slug, pin, viewerID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, view)
}
