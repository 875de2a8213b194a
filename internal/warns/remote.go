package warns

import (
	"context"
	"errors"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/models"
)

// remoteTimeout bounds a request served over the message broker
const remoteTimeout = 10 * time.Second

var errMissingKey = errors.New("guildId and userId are required")

// RemoteHandler serves one broker request. Its shape matches mqtt.RequestHandler.
type RemoteHandler func(payload map[string]any) (any, error)

func keyFromPayload(payload map[string]any) (models.WarnKey, error) {
	guildID, _ := payload["guildId"].(string)
	userID, _ := payload["userId"].(string)
	if guildID == "" || userID == "" {
		return models.WarnKey{}, errMissingKey
	}
	return models.WarnKey{GuildID: guildID, UserID: userID}, nil
}

// CountHandler answers "warns/count" with the live count and the action the
// next warn would trigger
func CountHandler(ledger *Ledger) RemoteHandler {
	return func(payload map[string]any) (any, error) {
		key, err := keyFromPayload(payload)
		if err != nil {
			return nil, err
		}

		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()

		count, err := ledger.LiveCount(ctx, key)
		if err != nil {
			return nil, err
		}
		next := Decide(count + 1)
		return map[string]any{
			"liveCount":    count,
			"nextAction":   next.Action.String(),
			"nextDuration": next.Duration.String(),
		}, nil
	}
}
