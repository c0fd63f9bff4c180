package handler

import (
	"net/http"

	"canteen/internal/service"
)

func MenuHandler(menu *service.MenuService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, menu.List(r.URL.Query().Get("category")))
	}
}
