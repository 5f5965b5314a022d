package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/mhutchins/feedboard/internal/domain"
)

type signupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDomainError(w, r, domain.Invalid("Validation failed, entered data is incorrect.",
			domain.FieldError{Field: "body", Message: "expected a JSON object"}))
		return
	}

	id, err := s.auth.Signup(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "User created!",
		"userId":  id,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDomainError(w, r, domain.Invalid("Validation failed, entered data is incorrect.",
			domain.FieldError{Field: "body", Message: "expected a JSON object"}))
		return
	}

	token, id, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"token":  token,
		"userId": id,
	})
}
