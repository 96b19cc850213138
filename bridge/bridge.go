// Package bridge feeds a viewer from an MQTT broker, so producers written
// in other languages (or running on other machines) can drive the scene
// without linking this module. Messages on the transform topic are JSON
// batches of partial transform updates.
package bridge

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"scenic/viewer"
)

// Config describes the broker connection and topics.
type Config struct {
	URL      string `yaml:"url"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	ClientID string `yaml:"clientID"`
	Topics   struct {
		Transforms string `yaml:"transforms"`
	} `yaml:"topics"`
}

// TransformMessage is the payload expected on the transform topic.
type TransformMessage struct {
	Updates map[string]viewer.Update `json:"transforms"`
}

// Bridge subscribes to a broker and forwards updates to a Viewer.
type Bridge struct {
	config Config
	client mqtt.Client
	viewer *viewer.Viewer
}

// New creates a Bridge for the given viewer. Connect must be called
// before any messages flow.
func New(config Config, v *viewer.Viewer) *Bridge {
	b := new(Bridge)
	b.config = config
	b.viewer = v

	clientID := config.ClientID
	if clientID == "" {
		clientID = "scenic"
	}
	options := mqtt.NewClientOptions().
		AddBroker(config.URL).
		SetClientID(clientID).
		SetUsername(config.Username).
		SetPassword(config.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(func(mqtt.Client) {
			log.Printf("broker connected, subscribing to %s", config.Topics.Transforms)
			b.subscribe()
		})
	b.client = mqtt.NewClient(options)
	return b
}

// Connect connects to the broker; the subscription is (re-)established by
// the connect handler.
func (b *Bridge) Connect() error {
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("broker connect: %w", token.Error())
	}
	return nil
}

// Close disconnects from the broker.
func (b *Bridge) Close() {
	b.client.Disconnect(250)
}

func (b *Bridge) subscribe() {
	topic := b.config.Topics.Transforms
	if token := b.client.Subscribe(topic, 0, b.handleTransforms); token.Wait() && token.Error() != nil {
		log.Printf("subscribe %s: %v", topic, token.Error())
	}
}

func (b *Bridge) handleTransforms(client mqtt.Client, msg mqtt.Message) {
	updates, err := DecodeTransforms(msg.Payload())
	if err != nil {
		log.Printf("bad transform message on %s: %v", msg.Topic(), err)
		return
	}
	if err := b.viewer.BatchUpdate(updates); err != nil {
		log.Printf("forward transforms: %v", err)
	}
}

// DecodeTransforms parses a transform topic payload into a batch update.
func DecodeTransforms(payload []byte) (map[string]viewer.Update, error) {
	var m TransformMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	if len(m.Updates) == 0 {
		return nil, fmt.Errorf("no transforms in payload")
	}
	return m.Updates, nil
}
