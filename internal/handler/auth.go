package handler

import (
	"net/http"

	"canteen/internal/model"
	"canteen/internal/mw"
	"canteen/internal/service"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

func LoginHandler(authSvc *service.AuthService, secret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if req.Login == "" || req.Password == "" {
			http.Error(w, "login and password required", http.StatusBadRequest)
			return
		}

		user, err := authSvc.Authenticate(r.Context(), req.Login, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		respondWithToken(w, user, secret)
	}
}

func respondWithToken(w http.ResponseWriter, user model.User, secret string) {
	tokenString, err := mw.IssueToken(user, secret)
	if err != nil {
		http.Error(w, "token generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Authorization", "Bearer "+tokenString)
	writeJSON(w, http.StatusOK, sessionResponse{Token: tokenString, User: user})
}
