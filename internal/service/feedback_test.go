package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"canteen/internal/model"
	"canteen/internal/repository/memory"
)

func TestFeedbackBoard(t *testing.T) {
	ctx := context.Background()
	svc := NewFeedbackService(memory.NewFeedbackRepository())

	board, err := svc.Board(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if board.Count != 0 || board.AverageRating != 0 || board.Entries == nil {
		t.Errorf("empty board = %+v", board)
	}

	if _, err := svc.Submit(ctx, aliceUser, 5, "Great dosa"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(ctx, model.User{ID: "u-bob", Login: "bob"}, 2, "  Cold idli  "); err != nil {
		t.Fatal(err)
	}

	board, _ = svc.Board(ctx)
	if board.Count != 2 || board.AverageRating != 3.5 {
		t.Errorf("board = %+v", board)
	}
	if board.Entries[0].User != "bob" || board.Entries[0].Text != "Cold idli" {
		t.Errorf("newest entry = %+v", board.Entries[0])
	}
}

func TestFeedbackValidation(t *testing.T) {
	svc := NewFeedbackService(memory.NewFeedbackRepository())
	tests := []struct {
		name   string
		rating int
		text   string
	}{
		{"rating too low", 0, "ok"},
		{"rating too high", 6, "ok"},
		{"blank text", 3, "   "},
		{"too long", 3, strings.Repeat("a", maxFeedbackLength+1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Submit(context.Background(), aliceUser, tt.rating, tt.text); !errors.Is(err, ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}
