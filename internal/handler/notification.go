package handler

import (
	"net/http"

	"canteen/internal/model"
	"canteen/internal/mw"
	"canteen/internal/service"
)

// The audience comes from the caller's role; customers only ever see their own feed.

func ListNotificationsHandler(d *service.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := mw.IdentityFrom(r.Context())

		ns, err := d.ListFor(r.Context(), model.AudienceFor(id.Role), id.UserID)
		if err != nil {
			writeError(w, err)
			return
		}
		if ns == nil {
			ns = []model.Notification{}
		}
		writeJSON(w, http.StatusOK, ns)
	}
}

func ClearNotificationsHandler(d *service.Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := mw.IdentityFrom(r.Context())

		if err := d.Clear(r.Context(), model.AudienceFor(id.Role), id.UserID); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
