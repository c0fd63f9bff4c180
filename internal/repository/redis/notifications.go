// Package redis keeps audience notification feeds in Redis lists.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/go-redis/redis/v8"

	"canteen/internal/model"
)

// maxFeedLength bounds each list: a staff audience or a single customer's feed.
const maxFeedLength = 500

type NotificationRepository struct {
	rdb *redis.Client
}

func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func NewNotificationRepository(rdb *redis.Client) *NotificationRepository {
	return &NotificationRepository{rdb: rdb}
}

// feedKey gives every customer a list of their own so one busy customer cannot
// trim another's notices. Staff audiences share one list each.
func feedKey(a model.Audience, recipient string) string {
	if a == model.AudienceCustomer && recipient != "" {
		return "notifications:customer:" + recipient
	}
	return "notifications:" + string(a)
}

func (r *NotificationRepository) Add(ctx context.Context, ns ...model.Notification) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, n := range ns {
			data, err := json.Marshal(n)
			if err != nil {
				return fmt.Errorf("marshal notification: %w", err)
			}
			key := feedKey(n.Audience, n.Recipient)
			pipe.LPush(ctx, key, data)
			pipe.LTrim(ctx, key, 0, maxFeedLength-1)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("push notifications: %w", err)
	}
	return nil
}

// List relies on LPUSH ordering: index 0 is the newest entry. The whole customer
// audience is merged from the per-customer lists.
func (r *NotificationRepository) List(ctx context.Context, audience model.Audience, recipient string) ([]model.Notification, error) {
	if audience != model.AudienceCustomer || recipient != "" {
		return r.load(ctx, feedKey(audience, recipient))
	}

	keys, err := r.customerKeys(ctx)
	if err != nil {
		return nil, err
	}
	var all []model.Notification
	for _, key := range keys {
		ns, err := r.load(ctx, key)
		if err != nil {
			return nil, err
		}
		all = append(all, ns...)
	}
	slices.SortStableFunc(all, func(a, b model.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if all == nil {
		all = []model.Notification{}
	}
	return all, nil
}

func (r *NotificationRepository) Clear(ctx context.Context, audience model.Audience, recipient string) error {
	keys := []string{feedKey(audience, recipient)}
	if audience == model.AudienceCustomer && recipient == "" {
		var err error
		if keys, err = r.customerKeys(ctx); err != nil {
			return err
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}

// customerKeys lists the per-customer feeds plus the shared customer list.
func (r *NotificationRepository) customerKeys(ctx context.Context) ([]string, error) {
	keys := []string{feedKey(model.AudienceCustomer, "")}
	iter := r.rdb.Scan(ctx, 0, feedKey(model.AudienceCustomer, "*"), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan customer feeds: %w", err)
	}
	return keys, nil
}

func (r *NotificationRepository) load(ctx context.Context, key string) ([]model.Notification, error) {
	raw, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read notifications: %w", err)
	}
	out := make([]model.Notification, 0, len(raw))
	for _, v := range raw {
		var n model.Notification
		if err := json.Unmarshal([]byte(v), &n); err != nil {
			return nil, fmt.Errorf("unmarshal notification: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}
