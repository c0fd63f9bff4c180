package handler

import (
	"net/http"

	"canteen/internal/mw"
	"canteen/internal/service"
)

func ChefViewHandler(views *service.Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := views.Chef(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func AdminViewHandler(views *service.Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts, err := listOptions(r)
		if err != nil {
			writeError(w, err)
			return
		}
		v, err := views.Admin(r.Context(), opts)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func CustomerViewHandler(views *service.Views) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := mw.IdentityFrom(r.Context())

		v, err := views.Customer(r.Context(), id.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}
