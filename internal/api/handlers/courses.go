package handlers

import (
	"context"
	"net/http"
)

// Catalog is the course statistics surface for the courses handler.
type Catalog interface {
	ListCourseTitles(ctx context.Context) ([]string, error)
	CourseCount(ctx context.Context) (int, error)
}

// CoursesHandler serves GET /api/v1/courses.
type CoursesHandler struct {
	catalog Catalog
}

// NewCoursesHandler creates a CoursesHandler.
func NewCoursesHandler(catalog Catalog) *CoursesHandler {
	return &CoursesHandler{catalog: catalog}
}

type coursesResponse struct {
	Total  int      `json:"total"`
	Titles []string `json:"titles"`
}

// List handles GET /api/v1/courses.
func (h *CoursesHandler) List(w http.ResponseWriter, r *http.Request) {
	titles, err := h.catalog.ListCourseTitles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list courses")
		return
	}
	total, err := h.catalog.CourseCount(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count courses")
		return
	}
	if titles == nil {
		titles = []string{}
	}

	writeJSON(w, http.StatusOK, coursesResponse{Total: total, Titles: titles})
}
