package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"scholarboard/internal/auth"
	"scholarboard/pkg/interfaces"
	"scholarboard/pkg/types"
)

type CreateStudentRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Domain   string `json:"domain" validate:"max=100"`
}

type UpdateStudentRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=100"`
	Email  string `json:"email" validate:"required,email"`
	Domain string `json:"domain" validate:"max=100"`
}

type StudentResponse struct {
	Student *types.Student `json:"student"`
}

type ListStudentsResponse struct {
	Students []*types.Student `json:"students"`
}

// POST /api/students - admin registers a student account directly.
func (s *Server) createStudent(w http.ResponseWriter, r *http.Request) {
	var req CreateStudentRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	student := &types.Student{
		Name:         req.Name,
		Email:        req.Email,
		Role:         types.RoleStudent,
		Domain:       req.Domain,
		PasswordHash: auth.HashPassword(req.Password),
	}
	if err := s.store.CreateStudent(r.Context(), student); err != nil {
		if err == interfaces.ErrDuplicate {
			s.sendError(w, "Email already registered", http.StatusConflict)
		} else {
			s.sendError(w, "Failed to create student", http.StatusInternalServerError)
		}
		return
	}

	s.sendJSON(w, http.StatusCreated, StudentResponse{Student: student})
}

// GET /api/students
func (s *Server) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.store.ListStudents(r.Context())
	if err != nil {
		s.sendError(w, "Failed to list students", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusOK, ListStudentsResponse{Students: students})
}

// GET /api/students/{studentID}
func (s *Server) getStudent(w http.ResponseWriter, r *http.Request) {
	student, err := s.store.GetStudent(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		if err == interfaces.ErrNotFound {
			s.sendError(w, "Student not found", http.StatusNotFound)
		} else {
			s.sendError(w, "Failed to get student", http.StatusInternalServerError)
		}
		return
	}

	s.sendJSON(w, http.StatusOK, StudentResponse{Student: student})
}

// PUT /api/students/{studentID} - profile fields only, never the password.
func (s *Server) updateStudent(w http.ResponseWriter, r *http.Request) {
	var req UpdateStudentRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.sendError(w, err.Error(), http.StatusBadRequest)
		return
	}

	student, err := s.store.GetStudent(r.Context(), chi.URLParam(r, "studentID"))
	if err != nil {
		if err == interfaces.ErrNotFound {
			s.sendError(w, "Student not found", http.StatusNotFound)
		} else {
			s.sendError(w, "Failed to get student", http.StatusInternalServerError)
		}
		return
	}

	student.Name = req.Name
	student.Email = req.Email
	student.Domain = req.Domain
	if err := s.store.UpdateStudent(r.Context(), student); err != nil {
		s.sendError(w, "Failed to update student", http.StatusInternalServerError)
		return
	}

	s.sendJSON(w, http.StatusOK, StudentResponse{Student: student})
}

// DELETE /api/students/{studentID}
func (s *Server) deleteStudent(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteStudent(r.Context(), chi.URLParam(r, "studentID")); err != nil {
		if err == interfaces.ErrNotFound {
			s.sendError(w, "Student not found", http.StatusNotFound)
		} else {
			s.sendError(w, "Failed to delete student", http.StatusInternalServerError)
		}
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]string{"message": "Student deleted"})
}
