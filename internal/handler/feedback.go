package handler

import (
	"net/http"

	"canteen/internal/mw"
	"canteen/internal/service"
)

type feedbackRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func SubmitFeedbackHandler(feedback *service.FeedbackService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := mw.IdentityFrom(r.Context())

		var req feedbackRequest
		if err := decodeJSON(r, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		f, err := feedback.Submit(r.Context(), id.User(), req.Rating, req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, f)
	}
}

func FeedbackBoardHandler(feedback *service.FeedbackService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		board, err := feedback.Board(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, board)
	}
}
