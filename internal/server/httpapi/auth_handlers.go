package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/gorilla/mux"
)

type registerRequest struct {
	UserName string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// POST /register
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	token, err := s.users.Register(r.Context(), in.UserName, in.Email, in.Password)
	s.metrics.AuthEvent("register", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

// POST /register-admin (admin only)
func (s *Server) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var in registerRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	token, err := s.users.RegisterAdmin(r.Context(), in.UserName, in.Email, in.Password)
	s.metrics.AuthEvent("register_admin", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokenResponse{Token: token})
}

// POST /login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in credentialsRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	token, err := s.users.Login(r.Context(), in.Email, in.Password)
	s.metrics.AuthEvent("login", err)
	if err != nil {
		if errors.Is(err, common.ErrorUserNotFound) {
			writeMessage(w, http.StatusBadRequest, msgUserNotFound)
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}

// POST /forgot-password
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	err := s.users.ForgotPassword(r.Context(), in.Email)
	s.metrics.AuthEvent("forgot_password", err)
	if err != nil {
		if errors.Is(err, common.ErrorUserNotFound) {
			writeMessage(w, http.StatusNotFound, msgUserNotFound)
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password reset link sent")
}

// POST /reset-password/{token}
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &in); err != nil {
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	err := s.users.ResetPassword(r.Context(), mux.Vars(r)["token"], in.Password)
	s.metrics.AuthEvent("reset_password", err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password successfully reset")
}
