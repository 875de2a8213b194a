// Package mqtt connects the bot to the MQTT broker. Moderation events are
// published under villager/events/, and other services can query the bot with
// correlated request/response messages under villager/request/ and
// villager/response/.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PancyStudios/VillagerBot/pkg/logger"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Topic roots
const (
	RequestPrefix  = "villager/request/"
	ResponsePrefix = "villager/response/"
	EventPrefix    = "villager/events/"
)

// ErrNotConnected is returned when publishing without a broker connection
var ErrNotConnected = errors.New("mqtt: not connected")

// MqttRequest represents an MQTT request message
type MqttRequest struct {
	CorrelationID string         `json:"correlationId"`
	Payload       map[string]any `json:"payload,omitempty"`
}

// MqttResponse represents an MQTT response message
type MqttResponse struct {
	CorrelationID string `json:"correlationId"`
	Data          any    `json:"data"`
	Error         string `json:"error,omitempty"`
}

// RequestHandler answers a request. The payload always carries the request
// topic (without prefix) under "_topic".
type RequestHandler func(payload map[string]any) (any, error)

type route struct {
	pattern string
	handler RequestHandler
}

// MqttCommunicator handles MQTT communication
type MqttCommunicator struct {
	client   mqtt.Client
	clientID string

	mu     sync.RWMutex
	routes []route
}

var (
	communicator *MqttCommunicator
	once         sync.Once
)

// Init initializes the global MQTT communicator
func Init(broker, username, password, clientID string) *MqttCommunicator {
	once.Do(func() {
		communicator = NewMqttCommunicator(broker, username, password, clientID)
	})
	return communicator
}

// Get returns the global MQTT communicator
func Get() *MqttCommunicator {
	return communicator
}

// NewMqttCommunicator creates a communicator and starts connecting. The
// client keeps retrying in the background when the broker is unreachable.
func NewMqttCommunicator(broker, username, password, clientID string) *MqttCommunicator {
	mc := &MqttCommunicator{clientID: clientID}

	uniqueID := fmt.Sprintf("%s_%s", clientID, uuid.NewString())

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(uniqueID).
		SetUsername(username).
		SetPassword(password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(c mqtt.Client) {
			logger.Success(fmt.Sprintf("Conectado al broker MQTT como %s", clientID), "MQTT")
			mc.subscribeRequests()
		}).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			logger.Error(fmt.Sprintf("Conexión MQTT perdida: %v", err), "MQTT")
		})

	mc.client = mqtt.NewClient(opts)

	token := mc.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		logger.Warn("El broker MQTT no responde, se seguirá reintentando", "MQTT")
	} else if token.Error() != nil {
		logger.Error(fmt.Sprintf("Error de conexión MQTT: %v", token.Error()), "MQTT")
	}

	return mc
}

// Destroy closes the MQTT connection
func (mc *MqttCommunicator) Destroy() {
	if mc.client != nil && mc.client.IsConnected() {
		mc.client.Disconnect(250)
		logger.System("Conexión MQTT cerrada exitosamente.", "MQTT")
	} else {
		logger.Warn("El cliente MQTT no estaba conectado, no se necesita cerrar.", "MQTT")
	}
}

// IsConnected returns true if connected to the broker
func (mc *MqttCommunicator) IsConnected() bool {
	return mc.client != nil && mc.client.IsConnected()
}

// Publish sends payload as JSON to topic
func (mc *MqttCommunicator) Publish(ctx context.Context, topic string, payload any) error {
	if !mc.IsConnected() {
		return ErrNotConnected
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	token := mc.client.Publish(topic, 1, false, jsonData)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Request sends a request and waits for the correlated response
func (mc *MqttCommunicator) Request(ctx context.Context, topic string, payload map[string]any) (any, error) {
	correlationID := uuid.NewString()
	responseTopic := ResponsePrefix + topic + "/" + correlationID

	responses := make(chan MqttResponse, 1)
	token := mc.client.Subscribe(responseTopic, 1, func(c mqtt.Client, msg mqtt.Message) {
		var response MqttResponse
		if err := json.Unmarshal(msg.Payload(), &response); err != nil {
			logger.Error(fmt.Sprintf("Respuesta MQTT inválida en %s: %v", msg.Topic(), err), "MQTT")
			return
		}
		if response.CorrelationID != correlationID {
			return
		}
		select {
		case responses <- response:
		default:
		}
	})
	if token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	defer mc.client.Unsubscribe(responseTopic)

	request := MqttRequest{CorrelationID: correlationID, Payload: payload}
	if err := mc.Publish(ctx, RequestPrefix+topic, request); err != nil {
		return nil, err
	}

	select {
	case response := <-responses:
		if response.Error != "" {
			return nil, errors.New(response.Error)
		}
		return response.Data, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("la petición a '%s' ha expirado: %w", topic, ctx.Err())
	}
}

// On registers a handler for request topics matching pattern. Patterns may
// use the MQTT wildcards + and #.
func (mc *MqttCommunicator) On(pattern string, callback RequestHandler) {
	mc.mu.Lock()
	mc.routes = append(mc.routes, route{pattern: pattern, handler: callback})
	mc.mu.Unlock()
	logger.Debug(fmt.Sprintf("Handler MQTT registrado para %s%s", RequestPrefix, pattern), "MQTT")
}

func (mc *MqttCommunicator) subscribeRequests() {
	token := mc.client.Subscribe(RequestPrefix+"#", 1, func(c mqtt.Client, msg mqtt.Message) {
		responseTopic, response, ok := mc.dispatch(msg.Topic(), msg.Payload())
		if !ok {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mc.Publish(ctx, responseTopic, response); err != nil {
			logger.Error(fmt.Sprintf("No se pudo responder en %s: %v", responseTopic, err), "MQTT")
		}
	})
	if token.Wait() && token.Error() != nil {
		logger.Error(fmt.Sprintf("Error subscribing to %s#: %v", RequestPrefix, token.Error()), "MQTT")
	}
}

// dispatch routes a raw request to its handler and builds the response
func (mc *MqttCommunicator) dispatch(topic string, raw []byte) (string, MqttResponse, bool) {
	var request MqttRequest
	if err := json.Unmarshal(raw, &request); err != nil {
		logger.Error(fmt.Sprintf("Error parsing MQTT request: %v", err), "MQTT")
		return "", MqttResponse{}, false
	}

	actualTopic := strings.TrimPrefix(topic, RequestPrefix)
	handler := mc.match(actualTopic)
	if handler == nil {
		return "", MqttResponse{}, false
	}

	payload := request.Payload
	if payload == nil {
		payload = make(map[string]any)
	}
	payload["_topic"] = actualTopic

	response := MqttResponse{CorrelationID: request.CorrelationID}
	data, err := handler(payload)
	if err != nil {
		response.Error = err.Error()
	} else {
		response.Data = data
	}
	return ResponsePrefix + actualTopic + "/" + request.CorrelationID, response, true
}

func (mc *MqttCommunicator) match(topic string) RequestHandler {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	for _, r := range mc.routes {
		if topicMatch(r.pattern, topic) {
			return r.handler
		}
	}
	return nil
}

// Subscribe subscribes to a topic with a message handler
func (mc *MqttCommunicator) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	token := mc.client.Subscribe(topic, 0, func(c mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	return token.Error()
}

// Unsubscribe unsubscribes from a topic
func (mc *MqttCommunicator) Unsubscribe(topic string) error {
	token := mc.client.Unsubscribe(topic)
	token.Wait()
	return token.Error()
}

// topicMatch checks if a received topic matches a pattern (with wildcards)
// '+' matches exactly one topic level
// '#' matches zero or more topic levels and must be the last character
func topicMatch(pattern, topic string) bool {
	patternParts := strings.Split(pattern, "/")
	topicParts := strings.Split(topic, "/")

	for i, part := range patternParts {
		if part == "#" {
			return true
		}
		if i >= len(topicParts) {
			return false
		}
		if part != "+" && part != topicParts[i] {
			return false
		}
	}
	return len(patternParts) == len(topicParts)
}
