package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scholarboard/pkg/interfaces"
	"scholarboard/pkg/types"
)

type CreateReportRequest struct {
	ArticleID string `json:"article_id" validate:"required"`
	Title     string `json:"title" validate:"required,min=1,max=200"`
	Content   string `json:"content"`
	FilePath  string `json:"file_path" validate:"max=500"`
}

type ReportResponse struct {
	Report *types.Report `json:"report"`
}

type ListReportsResponse struct {
	Reports []*types.Report `json:"reports"`
}

// POST /api/reports - a student submits a report for their assigned article.
// Admins do not submit reports.
func (s *Server) createReport(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())
	if identity.Role != types.RoleStudent {
		s.sendError(w, "Only students submit reports", http.StatusForbidden)
		return
	}

	var req CreateReportRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	article, err := s.store.GetArticle(r.Context(), req.ArticleID)
	if err != nil {
		if err == interfaces.ErrNotFound {
			s.sendError(w, "Article not found", http.StatusNotFound)
		} else {
			s.sendError(w, "Failed to get article", http.StatusInternalServerError)
		}
		return
	}
	if article.AssignedTo != identity.ID {
		s.sendError(w, "Article is not assigned to you", http.StatusForbidden)
		return
	}

	report := &types.Report{
		ArticleID: req.ArticleID,
		StudentID: identity.ID,
		Title:     req.Title,
		Content:   req.Content,
		FilePath:  req.FilePath,
	}
	if err := s.store.CreateReport(r.Context(), report); err != nil {
		s.sendError(w, "Failed to create report", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusCreated, ReportResponse{Report: report})
}

// GET /api/reports - admins see all reports, students only their own.
func (s *Server) listReports(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	var (
		reports []*types.Report
		err     error
	)
	if identity.Role == types.RoleAdmin {
		reports, err = s.store.ListReports(r.Context())
	} else {
		reports, err = s.store.ListReportsForStudent(r.Context(), identity.ID)
	}
	if err != nil {
		s.sendError(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusOK, ListReportsResponse{Reports: reports})
}

// GET /api/reports/{reportID} - a student may only read their own report.
func (s *Server) getReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.loadReportAuthorized(w, r)
	if !ok {
		return
	}

	s.sendJSON(w, http.StatusOK, ReportResponse{Report: report})
}

// DELETE /api/reports/{reportID} - the owning student or an admin.
func (s *Server) deleteReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.loadReportAuthorized(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteReport(r.Context(), report.ID); err != nil {
		s.sendError(w, "Failed to delete report", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]string{"message": "Report deleted"})
}

// loadReportAuthorized fetches the report and enforces ownership for
// students. Writes the error response itself when returning ok=false.
func (s *Server) loadReportAuthorized(w http.ResponseWriter, r *http.Request) (*types.Report, bool) {
	report, err := s.store.GetReport(r.Context(), chi.URLParam(r, "reportID"))
	if err != nil {
		if err == interfaces.ErrNotFound {
			s.sendError(w, "Report not found", http.StatusNotFound)
		} else {
			s.sendError(w, "Failed to get report", http.StatusInternalServerError)
		}
		return nil, false
	}

	identity, _ := identityFrom(r.Context())
	if identity.Role != types.RoleAdmin && report.StudentID != identity.ID {
		s.sendError(w, "Access denied", http.StatusForbidden)
		return nil, false
	}

	return report, true
}
