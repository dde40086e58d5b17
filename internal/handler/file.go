package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"classfolio/internal/config"
	"classfolio/internal/domain/services"
	"classfolio/internal/httputil"
)

// FileHandler handles file HTTP requests
type FileHandler struct {
	fileService services.FileService
	logger      *slog.Logger
}

// NewFileHandler creates a new file handler
func NewFileHandler(fileService services.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		fileService: fileService,
		logger:      logger,
	}
}

// UploadFile uploads a file into a project. Multipart form with a "file"
// part plus "project_id" and optional "folder_id" fields. The form name
// defaults to the uploaded filename; a "name" field overrides it.
// POST /api/files
func (h *FileHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		handleError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+(1<<20))
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			httputil.RespondError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	part, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "missing file part")
		return
	}
	defer part.Close()

	content, err := io.ReadAll(part)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "failed to read file part")
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = header.Filename
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	req := &services.UploadFileRequest{
		CallerID:    userID,
		ProjectID:   r.FormValue("project_id"),
		Name:        name,
		ContentType: contentType,
		Content:     content,
	}
	if folderID := r.FormValue("folder_id"); folderID != "" {
		req.FolderID = &folderID
	}

	file, err := h.fileService.UploadFile(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, file)
}

// GetFile retrieves a file's metadata by ID
// GET /api/files/{id}
func (h *FileHandler) GetFile(w http.ResponseWriter, r *http.Request) {
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

	file, err := h.fileService.GetFile(r.Context(), id, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, file)
}

// ListFiles retrieves a project's active files
// GET /api/projects/{id}/files
func (h *FileHandler) ListFiles(w http.ResponseWriter, r *http.Request) {
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

	files, err := h.fileService.ListFiles(r.Context(), projectID, userID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, files)
}
