package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"scholarboard/pkg/interfaces"
	"scholarboard/pkg/types"
)

type CreateArticleRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content"`
	FilePath string `json:"file_path" validate:"max=500"`
}

type UpdateArticleRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content"`
	FilePath string `json:"file_path" validate:"max=500"`
}

type AssignArticleRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

type ArticleResponse struct {
	Article *types.Article `json:"article"`
}

type ListArticlesResponse struct {
	Articles []*types.Article `json:"articles"`
}

// POST /api/articles
func (s *Server) createArticle(w http.ResponseWriter, r *http.Request) {
	var req CreateArticleRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	article := &types.Article{
		Title:    req.Title,
		Content:  req.Content,
		FilePath: req.FilePath,
	}
	if err := s.store.CreateArticle(r.Context(), article); err != nil {
		s.sendError(w, "Failed to create article", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusCreated, ArticleResponse{Article: article})
}

// GET /api/articles - admins see everything, students only their assignments.
func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	var (
		articles []*types.Article
		err      error
	)
	if identity.Role == types.RoleAdmin {
		articles, err = s.store.ListArticles(r.Context())
	} else {
		articles, err = s.store.ListArticlesForStudent(r.Context(), identity.ID)
	}
	if err != nil {
		s.sendError(w, "Failed to list articles", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusOK, ListArticlesResponse{Articles: articles})
}

// GET /api/articles/{articleID} - students may only open their own assignment.
func (s *Server) getArticle(w http.ResponseWriter, r *http.Request) {
	article, err := s.store.GetArticle(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		if err == interfaces.ErrNotFound {
			s.sendError(w, "Article not found", http.StatusNotFound)
		} else {
			s.sendError(w, "Failed to get article", http.StatusInternalServerError)
		}
		return
	}

	identity, _ := identityFrom(r.Context())
	if identity.Role != types.RoleAdmin && article.AssignedTo != identity.ID {
		s.sendError(w, "Access denied", http.StatusForbidden)
		return
	}

	s.sendJSON(w, http.StatusOK, ArticleResponse{Article: article})
}

// PUT /api/articles/{articleID}
func (s *Server) updateArticle(w http.ResponseWriter, r *http.Request) {
	var req UpdateArticleRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	article, err := s.store.GetArticle(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		if err == interfaces.ErrNotFound {
			s.sendError(w, "Article not found", http.StatusNotFound)
		} else {
			s.sendError(w, "Failed to get article", http.StatusInternalServerError)
		}
		return
	}

	article.Title = req.Title
	article.Content = req.Content
	article.FilePath = req.FilePath
	if err := s.store.UpdateArticle(r.Context(), article); err != nil {
		s.sendError(w, "Failed to update article", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusOK, ArticleResponse{Article: article})
}

// DELETE /api/articles/{articleID}
func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteArticle(r.Context(), chi.URLParam(r, "articleID")); err != nil {
		if err == interfaces.ErrNotFound {
			s.sendError(w, "Article not found", http.StatusNotFound)
		} else {
			s.sendError(w, "Failed to delete article", http.StatusInternalServerError)
		}
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]string{"message": "Article deleted"})
}

// POST /api/articles/{articleID}/assign - assigns the article to one student
// and notifies them by email. Assignment to a different student replaces the
// previous one.
func (s *Server) assignArticle(w http.ResponseWriter, r *http.Request) {
	var req AssignArticleRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	article, err := s.store.GetArticle(r.Context(), chi.URLParam(r, "articleID"))
	if err != nil {
		if err == interfaces.ErrNotFound {
			s.sendError(w, "Article not found", http.StatusNotFound)
		} else {
			s.sendError(w, "Failed to get article", http.StatusInternalServerError)
		}
		return
	}

	student, err := s.store.GetStudent(r.Context(), req.StudentID)
	if err != nil {
		if err == interfaces.ErrNotFound {
			s.sendError(w, "Student not found", http.StatusNotFound)
		} else {
			s.sendError(w, "Failed to get student", http.StatusInternalServerError)
		}
		return
	}

	article.AssignedTo = student.ID
	if err := s.store.UpdateArticle(r.Context(), article); err != nil {
		s.sendError(w, "Failed to assign article", http.StatusInternalServerError)
		return
	}

	s.email.Send(student.Email,
		fmt.Sprintf("New article assigned: %s", article.Title),
		fmt.Sprintf("Hello %s,\n\nThe article %q has been assigned to you. Log in to read it and submit your report.", student.Name, article.Title))

	s.sendJSON(w, http.StatusOK, ArticleResponse{Article: article})
}
