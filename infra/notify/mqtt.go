package notify

import (
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	corelogger "github.com/kilianp07/planfit/core/logger"
	"github.com/kilianp07/planfit/core/plan"
	"github.com/kilianp07/planfit/infra/logger"
)

// Config defines the connection parameters for the MQTT notifier.
type Config struct {
	Enabled  bool   `json:"enabled"`
	Broker   string `json:"broker"`
	ClientID string `json:"client_id"`
	Username string `json:"username"`
	Password string `json:"password"`
	// Topic receives the JSON plan after every reschedule.
	Topic string `json:"topic"`
	QoS   byte   `json:"qos"`
	// Retain keeps the last plan on the broker so late subscribers see
	// the current schedule immediately.
	Retain bool `json:"retain"`
}

// SetDefaults applies topic and client id defaults.
func (c *Config) SetDefaults() {
	if c.Topic == "" {
		c.Topic = "planfit/plan"
	}
	if c.ClientID == "" {
		c.ClientID = "planfit-" + uuid.NewString()[:8]
	}
}

// Validate checks mandatory fields when the notifier is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("notify broker is required")
	}
	return nil
}

// Publisher pushes plan updates to downstream renderers. The plan API is
// the authoritative surface; MQTT delivery is fire and forget.
type Publisher interface {
	PublishPlan(res plan.Result) error
	Close()
}

// MQTTPublisher implements Publisher using Eclipse Paho.
type MQTTPublisher struct {
	cli    paho.Client
	topic  string
	qos    byte
	retain bool
	log    corelogger.Logger
}

// NewMQTTPublisher connects to the broker and returns a Publisher.
func NewMQTTPublisher(cfg Config) (*MQTTPublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.New("notify")

	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}

	cli := paho.NewClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &MQTTPublisher{cli: cli, topic: cfg.Topic, qos: cfg.QoS, retain: cfg.Retain, log: log}, nil
}

// PublishPlan serialises the result and publishes it on the configured
// topic.
func (p *MQTTPublisher) PublishPlan(res plan.Result) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	token := p.cli.Publish(p.topic, p.qos, p.retain, payload)
	if token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}

// Close disconnects from the broker.
func (p *MQTTPublisher) Close() {
	p.cli.Disconnect(250)
}
