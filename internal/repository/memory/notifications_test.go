package memory

import (
	"context"
	"testing"

	"canteen/internal/model"
)

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewNotificationRepository()
	_ = repo.Add(ctx,
		model.Notification{ID: "1", Audience: model.AudienceCustomer, Recipient: "c1"},
		model.Notification{ID: "2", Audience: model.AudienceCustomer, Recipient: "c2"},
		model.Notification{ID: "3", Audience: model.AudienceCustomer, Recipient: "c1"},
		model.Notification{ID: "4", Audience: model.AudienceChef},
	)

	c1, _ := repo.List(ctx, model.AudienceCustomer, "c1")
	if len(c1) != 2 || c1[0].ID != "3" || c1[1].ID != "1" {
		t.Errorf("c1 feed = %+v, want newest first", c1)
	}

	previous, _ := repo.List(ctx, model.AudienceCustomer, "")
	if err := repo.Clear(ctx, model.AudienceCustomer, "c1"); err != nil {
		t.Fatal(err)
	}
	left, _ := repo.List(ctx, model.AudienceCustomer, "")
	if len(left) != 1 || left[0].ID != "2" {
		t.Errorf("after clearing c1 = %+v", left)
	}
	if len(previous) != 3 {
		t.Errorf("earlier listing changed: %+v", previous)
	}

	if err := repo.Clear(ctx, model.AudienceChef, ""); err != nil {
		t.Fatal(err)
	}
	if chef, _ := repo.List(ctx, model.AudienceChef, ""); len(chef) != 0 {
		t.Errorf("chef feed after clear = %+v", chef)
	}
	if left, _ := repo.List(ctx, model.AudienceCustomer, ""); len(left) != 1 {
		t.Errorf("clearing chef touched customer feed: %+v", left)
	}
}
