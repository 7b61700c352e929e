package api

import (
	"net/http"

	"scholarboard/pkg/types"
)

type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2000"`
}

type CommentResponse struct {
	Comment *types.Comment `json:"comment"`
}

type ListCommentsResponse struct {
	Comments []*types.Comment `json:"comments"`
}

// POST /api/reports/{reportID}/comments - admin comments on a report.
func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, ok := s.loadReportAuthorized(w, r)
	if !ok {
		return
	}

	identity, _ := identityFrom(r.Context())
	comment := &types.Comment{
		ReportID: report.ID,
		AuthorID: identity.ID,
		Text:     req.Text,
	}
	if err := s.store.CreateComment(r.Context(), comment); err != nil {
		s.sendError(w, "Failed to create comment", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusCreated, CommentResponse{Comment: comment})
}

// GET /api/reports/{reportID}/comments - chronological order.
func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	report, ok := s.loadReportAuthorized(w, r)
	if !ok {
		return
	}

	comments, err := s.store.ListCommentsForReport(r.Context(), report.ID)
	if err != nil {
		s.sendError(w, "Failed to list comments", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusOK, ListCommentsResponse{Comments: comments})
}
