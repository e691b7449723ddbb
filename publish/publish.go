// Package publish republishes validated inner messages to an MQTT broker,
// following this codebase's own MQTT publisher: paho client options,
// auto-reconnect, and a background connect handshake before any publish is
// attempted.
package publish

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/cwsl/fskrx/config"
	"github.com/cwsl/fskrx/message"
)

// MQTT publishes raw packet payloads to the configured topic and decoded
// inner messages to per-address subtopics of it.
type MQTT struct {
	client mqtt.Client
	topic  string
}

func generateClientID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return "fskrx_" + hex.EncodeToString(b)
}

// NewMQTT connects to the broker described by cfg and returns a publisher
// bound to cfg.Topic. It blocks until the initial connection attempt
// completes.
func NewMQTT(cfg config.MQTTConfig) (*MQTT, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(generateClientID())
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetOnConnectHandler(func(mqtt.Client) {
		log.Printf("[fskrx publish] connected to broker %s", cfg.Broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Printf("[fskrx publish] connection lost: %v", err)
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("publish: connecting to %s: %w", cfg.Broker, token.Error())
	}

	return &MQTT{client: client, topic: cfg.Topic}, nil
}

// PublishPacket publishes a raw outer-packet payload as-is. Use it when
// the payload is not itself an inner message.
func (m *MQTT) PublishPacket(payload []byte) {
	token := m.client.Publish(m.topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("[fskrx publish] publish failed: %v", err)
	}
}

// PublishMessage decodes payload as an inner message and, if it decodes
// cleanly, republishes its data field to topic/<src>/<dst>. Payloads that
// don't decode as a message are silently ignored, consistent with the
// framer's own policy of dropping malformed wire data rather than
// surfacing an error.
func (m *MQTT) PublishMessage(payload []byte) {
	decoded, ok := message.Decode(payload)
	if !ok {
		return
	}
	subtopic := fmt.Sprintf("%s/%d/%d", m.topic, decoded.Src, decoded.Dst)
	token := m.client.Publish(subtopic, 0, false, decoded.Data)
	token.Wait()
	if err := token.Error(); err != nil {
		log.Printf("[fskrx publish] publish failed: %v", err)
	}
}

// Disconnect closes the MQTT connection, waiting up to the given number of
// milliseconds for in-flight publishes to drain.
func (m *MQTT) Disconnect(quiesceMS uint) {
	m.client.Disconnect(quiesceMS)
}
