package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	applog "recipebook/internal/log"
)

// bcrypt refuses longer inputs.
const maxPasswordBytes = 72

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type sessionResponse struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// Session signs a user in on POST and out on DELETE. GET reports the
// current session.
func Session(w http.ResponseWriter, r *http.Request) {
	applog.Debug(r.Context(), "handling session request", "method", r.Method)

	if sessionManager == nil || database == nil {
		applog.Debug(r.Context(), "authentication dependencies unavailable", "hasSession", sessionManager != nil, "hasDatabase", database != nil)
		writeJSONError(w, http.StatusServiceUnavailable, "authentication not available")
		return
	}

	switch r.Method {
	case http.MethodGet:
		userID, ok := currentUserID(r)
		if !ActiveSession(r) || !ok {
			writeJSONError(w, http.StatusUnauthorized, "no active session")
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{
			UserID: userID,
			Email:  sessionManager.GetString(r.Context(), sessionUserEmailKey),
			Name:   sessionManager.GetString(r.Context(), sessionUserNameKey),
		})
	case http.MethodPost:
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			applog.Debug(r.Context(), "failed to decode login payload", "error", err)
			writeJSONError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
		email := strings.TrimSpace(req.Email)
		if email == "" || req.Password == "" {
			writeJSONError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		user, err := authenticate(r, email, req.Password)
		if err != nil {
			if errors.Is(err, errInvalidCredentials) {
				applog.Warn(r.Context(), "login rejected", "email", strings.ToLower(email))
				writeJSONError(w, http.StatusUnauthorized, err.Error())
				return
			}
			applog.Error(r.Context(), "failed to sign in", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "unable to sign in")
			return
		}

		applog.Info(r.Context(), "user signed in", "userID", user.ID)
		writeJSON(w, http.StatusOK, sessionResponse{UserID: user.ID, Email: user.Email, Name: user.Name})
	case http.MethodDelete:
		if err := sessionManager.Destroy(r.Context()); err != nil {
			applog.Error(r.Context(), "failed to destroy session", "error", err)
			writeJSONError(w, http.StatusInternalServerError, "unable to sign out")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Signup registers a user account and signs it in.
func Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if sessionManager == nil || database == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "registration not available")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		writeJSONError(w, http.StatusBadRequest, "a valid email address is required")
		return
	}
	if len(req.Password) < 8 {
		writeJSONError(w, http.StatusBadRequest, "password must be at least 8 characters long")
		return
	}
	if len(req.Password) > maxPasswordBytes {
		writeJSONError(w, http.StatusBadRequest, "password must be at most 72 bytes long")
		return
	}
	if _, err := findUserByEmail(r, email); err == nil {
		writeJSONError(w, http.StatusConflict, "an account with that email already exists")
		return
	}

	user, err := createUser(r, email, req.Name, req.Password)
	if err != nil {
		applog.Error(r.Context(), "failed to create user", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to create account")
		return
	}
	if err := establishSession(r, user); err != nil {
		applog.Error(r.Context(), "failed to establish session after signup", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to sign in")
		return
	}

	applog.Info(r.Context(), "user registered", "userID", user.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{UserID: user.ID, Email: user.Email, Name: user.Name})
}
