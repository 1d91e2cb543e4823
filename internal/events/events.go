// Package events carries the change feed published to subscribed clients
// whenever a shift, user or notification record changes. Payloads are typed
// and validated at the boundary instead of being trusted as loose JSON.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Channel is the Redis pub/sub channel the change feed is published on.
const Channel = "rosterpro:events"

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

type Entity string

const (
	EntityShift        Entity = "shift"
	EntityUser         Entity = "user"
	EntityNotification Entity = "notification"
)

type ChangeEvent struct {
	Action  Action          `json:"action"`
	Entity  Entity          `json:"entity"`
	Payload json.RawMessage `json:"payload"`
}

var ErrInvalidEvent = errors.New("invalid change event")

// Decode parses and validates an inbound change event.
func Decode(data []byte) (*ChangeEvent, error) {
	ev := &ChangeEvent{}
	if err := json.Unmarshal(data, ev); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEvent, err)
	}

	switch ev.Action {
	case ActionCreated, ActionUpdated, ActionDeleted:
	default:
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidEvent, ev.Action)
	}

	switch ev.Entity {
	case EntityShift, EntityUser, EntityNotification:
	default:
		return nil, fmt.Errorf("%w: unknown entity %q", ErrInvalidEvent, ev.Entity)
	}

	if len(ev.Payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidEvent)
	}

	return ev, nil
}

type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) Publish(ctx context.Context, action Action, entity Entity, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	body, err := json.Marshal(ChangeEvent{
		Action:  action,
		Entity:  entity,
		Payload: raw,
	})
	if err != nil {
		return err
	}

	return p.rdb.Publish(ctx, Channel, body).Err()
}
