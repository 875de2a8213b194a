package mqtt

import (
	"errors"
	"testing"

	"github.com/PancyStudios/VillagerBot/pkg/models"
	"github.com/goccy/go-json"
)

func TestTopicMatch(t *testing.T) {
	tests := []struct {
		pattern string
		topic   string
		want    bool
	}{
		{"warns/count", "warns/count", true},
		{"warns/count", "warns/list", false},
		{"warns/+", "warns/list", true},
		{"warns/+", "warns/list/extra", false},
		{"warns/#", "warns", true},
		{"warns/#", "warns/a/b/c", true},
		{"#", "anything/at/all", true},
		{"warns/count/+", "warns/count", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"→"+tt.topic, func(t *testing.T) {
			if got := topicMatch(tt.pattern, tt.topic); got != tt.want {
				t.Errorf("topicMatch(%q, %q) = %v, want %v", tt.pattern, tt.topic, got, tt.want)
			}
		})
	}
}

func TestDispatch(t *testing.T) {
	mc := &MqttCommunicator{}
	mc.On("warns/count", func(payload map[string]any) (any, error) {
		return map[string]any{"topic": payload["_topic"], "user": payload["userId"]}, nil
	})
	mc.On("warns/+", func(payload map[string]any) (any, error) {
		return nil, errors.New("unsupported")
	})

	raw, _ := json.Marshal(MqttRequest{CorrelationID: "c1", Payload: map[string]any{"userId": "42"}})

	topic, resp, ok := mc.dispatch(RequestPrefix+"warns/count", raw)
	if !ok {
		t.Fatal("expected a handler match")
	}
	if topic != ResponsePrefix+"warns/count/c1" {
		t.Errorf("response topic = %q", topic)
	}
	data, _ := resp.Data.(map[string]any)
	if data["topic"] != "warns/count" || data["user"] != "42" {
		t.Errorf("unexpected data %v", resp.Data)
	}

	_, resp, ok = mc.dispatch(RequestPrefix+"warns/other", raw)
	if !ok || resp.Error != "unsupported" {
		t.Errorf("expected handler error, got %+v", resp)
	}

	if _, _, ok := mc.dispatch(RequestPrefix+"guilds/list", raw); ok {
		t.Error("expected no match for an unregistered topic")
	}
	if _, _, ok := mc.dispatch(RequestPrefix+"warns/count", []byte("{")); ok {
		t.Error("expected invalid JSON to be dropped")
	}
}

func TestEventTopic(t *testing.T) {
	ev := models.ModerationEvent{Type: models.EventWarnIssued, GuildID: "g1"}
	if got := EventTopic(ev); got != EventPrefix+"g1/"+string(models.EventWarnIssued) {
		t.Errorf("EventTopic() = %q", got)
	}
}
