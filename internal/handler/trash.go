package handler

import (
	"context"
	"log/slog"
	"net/http"

	"classfolio/internal/domain/services"
	"classfolio/internal/httputil"
)

// TrashHandler handles trash lifecycle HTTP requests for all entity kinds.
// Soft delete answers 200 with a receipt rather than 204 so the client can
// see the storage_synced flag.
type TrashHandler struct {
	trashService services.TrashService
	logger       *slog.Logger
}

// NewTrashHandler creates a new trash handler
func NewTrashHandler(trashService services.TrashService, logger *slog.Logger) *TrashHandler {
	return &TrashHandler{
		trashService: trashService,
		logger:       logger,
	}
}

// transition runs one trash state change addressed by the {id} path value.
func (h *TrashHandler) transition(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, callerID string) (*services.TrashReceipt, error)) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, err)
		return
	}

	receipt, err := fn(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, receipt)
}

// SoftDeleteProject moves a project to the trash
// DELETE /api/projects/{id}
func (h *TrashHandler) SoftDeleteProject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trashService.SoftDeleteProject)
}

// RestoreProject restores a trashed project
// POST /api/projects/{id}/restore
func (h *TrashHandler) RestoreProject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trashService.RestoreProject)
}

// HardDeleteProject permanently deletes a trashed project
// DELETE /api/projects/{id}/permanent
func (h *TrashHandler) HardDeleteProject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trashService.HardDeleteProject)
}

// SoftDeleteFolder moves a folder to the trash
// DELETE /api/folders/{id}
func (h *TrashHandler) SoftDeleteFolder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trashService.SoftDeleteFolder)
}

// RestoreFolder restores a trashed folder
// POST /api/folders/{id}/restore
func (h *TrashHandler) RestoreFolder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trashService.RestoreFolder)
}

// HardDeleteFolder permanently deletes a trashed folder
// DELETE /api/folders/{id}/permanent
func (h *TrashHandler) HardDeleteFolder(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trashService.HardDeleteFolder)
}

// SoftDeleteFile moves a file to the trash
// DELETE /api/files/{id}
func (h *TrashHandler) SoftDeleteFile(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trashService.SoftDeleteFile)
}

// RestoreFile restores a trashed file
// POST /api/files/{id}/restore
func (h *TrashHandler) RestoreFile(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trashService.RestoreFile)
}

// HardDeleteFile permanently deletes a trashed file
// DELETE /api/files/{id}/permanent
func (h *TrashHandler) HardDeleteFile(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.trashService.HardDeleteFile)
}

// ListTrash lists a project's trashed folders and files
// GET /api/projects/{id}/trash
func (h *TrashHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
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

	listing, err := h.trashService.ListTrash(r.Context(), projectID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, listing)
}

// EmptyTrash purges a project's trashed folders and files
// DELETE /api/projects/{id}/trash
func (h *TrashHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.trashService.EmptyTrash(r.Context(), projectID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}
