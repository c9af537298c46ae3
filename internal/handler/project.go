package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/stemless/internal/repository"
)

// ProjectHandler serves read access to project and comment records.
// These are plain data — no business rules beyond the auth gate.
type ProjectHandler struct {
	projects repository.ProjectRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

func NewProjectHandler(
	projects repository.ProjectRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *ProjectHandler {
	return &ProjectHandler{projects: projects, comments: comments, logger: logger}
}

// HandleGetProject returns one project by uuid.
//
// HTTP: GET /projects/{uuid}
// Auth: required
func (h *ProjectHandler) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetByUUID(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, project)
}

// HandleGetComment returns one comment by uuid.
//
// HTTP: GET /comments/{uuid}
// Auth: required
func (h *ProjectHandler) HandleGetComment(w http.ResponseWriter, r *http.Request) {
	comment, err := h.comments.GetByUUID(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, comment)
}
