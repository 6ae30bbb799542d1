package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// EventLedger records processed gateway payment ids so a replayed webhook
// is acknowledged without reprocessing.
type EventLedger struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewEventLedger(rdb *redis.Client) *EventLedger {
	return &EventLedger{rdb: rdb, ttl: 30 * 24 * time.Hour}
}

// FirstDelivery reports whether this payment id has not been seen before,
// recording it atomically. Events without an id are always treated as
// first deliveries; MarkPaid stays idempotent for that path.
func (l *EventLedger) FirstDelivery(ctx context.Context, paymentID string) (bool, error) {
	if paymentID == "" {
		return true, nil
	}
	ok, err := l.rdb.SetNX(ctx, "razorpay:event:"+paymentID, 1, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("event ledger: %w", err)
	}
	return ok, nil
}
