package mqtt

import (
	"context"
	"fmt"

	"github.com/PancyStudios/VillagerBot/pkg/logger"
	"github.com/PancyStudios/VillagerBot/pkg/models"
)

// EventTopic returns the topic a moderation event is published on
func EventTopic(ev models.ModerationEvent) string {
	return fmt.Sprintf("%s%s/%s", EventPrefix, ev.GuildID, ev.Type)
}

// Notify publishes a moderation event. Failures are logged and dropped: the
// ledger change already happened and must not be reported as failed.
func (mc *MqttCommunicator) Notify(ctx context.Context, ev models.ModerationEvent) {
	if err := mc.Publish(ctx, EventTopic(ev), ev); err != nil {
		logger.Debug(fmt.Sprintf("Evento %s no publicado: %v", ev.Type, err), "MQTT")
	}
}
