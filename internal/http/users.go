package httpserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/jikoni/jikoni-api/internal/auth"
	"github.com/jikoni/jikoni-api/internal/domain"
	"github.com/jikoni/jikoni-api/internal/repository"
)

type registerRequest struct {
	FirstName   string  `json:"firstName" validate:"required"`
	MiddleName  *string `json:"middleName"`
	Surname     string  `json:"surname" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	Gender      string  `json:"gender" validate:"required,oneof=male female other"`
	PhoneNumber string  `json:"phoneNumber" validate:"required"`
	CountryCode string  `json:"countryCode"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID         string  `json:"id"`
	FirstName  string  `json:"firstName"`
	MiddleName *string `json:"middleName,omitempty"`
	Surname    string  `json:"surname"`
	Email      string  `json:"email"`
	CreatedAt  string  `json:"createdAt"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Printf("hash password error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user")
		return
	}

	user, err := s.repo.Users.Create(r.Context(), repository.UserCreateParams{
		FirstName:    strings.TrimSpace(req.FirstName),
		MiddleName:   normalizeStringPtr(req.MiddleName),
		Surname:      strings.TrimSpace(req.Surname),
		Email:        req.Email,
		PasswordHash: hash,
		Gender:       req.Gender,
		PhoneNumber:  strings.TrimSpace(req.PhoneNumber),
		CountryCode:  strings.TrimSpace(req.CountryCode),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "User already exists")
			return
		}
		s.logger.Printf("register user error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Printf("issue token error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register user")
		return
	}

	s.respondJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserResponse(user)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validate.Struct(req); err != nil {
		s.respondValidationError(w, err)
		return
	}

	user, err := s.repo.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
			return
		}
		s.logger.Printf("login lookup error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
		return
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		s.logger.Printf("issue token error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	s.respondJSON(w, http.StatusOK, authResponse{Token: token, User: toUserResponse(user)})
}

func toUserResponse(user domain.User) userResponse {
	return userResponse{
		ID:         user.ID,
		FirstName:  user.FirstName,
		MiddleName: user.MiddleName,
		Surname:    user.Surname,
		Email:      user.Email,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
	}
}

func normalizeStringPtr(ptr *string) *string {
	if ptr == nil {
		return nil
	}
	val := strings.TrimSpace(*ptr)
	if val == "" {
		return nil
	}
	return &val
}
