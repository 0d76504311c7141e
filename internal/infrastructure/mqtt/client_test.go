package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/oredata/minetel/internal/infrastructure/config"
)

func testMQTTConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "broker.local",
			Port:     1883,
			ClientID: "minetel-test",
		},
		Topic: "minetel/readings",
		QoS:   1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}
}

func TestBuildClientOptions(t *testing.T) {
	opts := buildClientOptions(testMQTTConfig())

	if len(opts.Servers) != 1 {
		t.Fatalf("expected 1 broker, got %d", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://broker.local:1883" {
		t.Errorf("broker URL = %q, want tcp://broker.local:1883", got)
	}
	if opts.ClientID != "minetel-test" {
		t.Errorf("client ID = %q, want minetel-test", opts.ClientID)
	}
	if !opts.AutoReconnect {
		t.Error("expected auto-reconnect enabled")
	}
	if !opts.CleanSession {
		t.Error("expected clean session enabled")
	}
	if opts.Username != "" {
		t.Errorf("expected no username without credentials, got %q", opts.Username)
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testMQTTConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)

	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Fatal("expected TLS config to be set")
	}
	if opts.TLSConfig.MinVersion != uint16(tlsMinVersion) {
		t.Errorf("TLS min version = %d, want %d", opts.TLSConfig.MinVersion, tlsMinVersion)
	}
}

func TestBuildClientOptions_Credentials(t *testing.T) {
	cfg := testMQTTConfig()
	cfg.Broker.Username = "gateway"
	cfg.Broker.Password = "secret"

	opts := buildClientOptions(cfg)

	if opts.Username != "gateway" {
		t.Errorf("username = %q, want gateway", opts.Username)
	}
	if opts.Password != "secret" {
		t.Errorf("password = %q, want secret", opts.Password)
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testMQTTConfig())
	configureLWT(opts, "minetel-test")

	if !opts.WillEnabled {
		t.Fatal("expected will to be enabled")
	}
	if opts.WillTopic != StatusTopic {
		t.Errorf("will topic = %q, want %q", opts.WillTopic, StatusTopic)
	}
	if !opts.WillRetained {
		t.Error("expected will to be retained")
	}

	var will map[string]any
	if err := json.Unmarshal(opts.WillPayload, &will); err != nil {
		t.Fatalf("will payload is not valid JSON: %v", err)
	}
	if will["status"] != "offline" {
		t.Errorf("will status = %v, want offline", will["status"])
	}
	if will["client_id"] != "minetel-test" {
		t.Errorf("will client_id = %v, want minetel-test", will["client_id"])
	}
}

func TestStatusPayloads(t *testing.T) {
	for name, payload := range map[string]string{
		"online":  buildOnlinePayload("minetel-test"),
		"offline": buildOfflinePayload("minetel-test"),
	} {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
			t.Fatalf("%s payload is not valid JSON: %v", name, err)
		}
		if decoded["status"] != name {
			t.Errorf("%s payload status = %v", name, decoded["status"])
		}
		if decoded["timestamp"] == "" {
			t.Errorf("%s payload missing timestamp", name)
		}
	}

	if !strings.Contains(buildOfflinePayload("x"), "graceful_shutdown") {
		t.Error("offline payload should carry the graceful_shutdown reason")
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	noop := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 1, noop); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("minetel/readings", 3, noop); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("qos 3: got %v, want ErrInvalidQoS", err)
	}
	if err := c.Subscribe("minetel/readings", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler: got %v, want ErrSubscribeFailed", err)
	}
	// Not connected yet, so a valid subscription is refused.
	if err := c.Subscribe("minetel/readings", 1, noop); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: got %v, want ErrNotConnected", err)
	}
	if got := c.SubscriptionCount(); got != 0 {
		t.Errorf("subscription count = %d, want 0", got)
	}
}

func TestUnsubscribe_Validation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
	if err := c.Unsubscribe("minetel/readings"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: got %v, want ErrNotConnected", err)
	}
}

// fakeMessage implements pahomqtt.Message for handler tests.
type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 0 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	errors   []string
	warnings []string
}

func (l *recordingLogger) Error(msg string, _ ...any) { l.errors = append(l.errors, msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.warnings = append(l.warnings, msg) }

func TestWrapHandler_PanicRecovery(t *testing.T) {
	logger := &recordingLogger{}
	c := &Client{subscriptions: make(map[string]subscription)}
	c.SetLogger(logger)

	wrapped := c.wrapHandler(func(string, []byte) error {
		panic("handler blew up")
	})

	// Must not propagate the panic.
	wrapped(nil, fakeMessage{topic: "minetel/readings", payload: []byte("{}")})

	if len(logger.errors) != 1 {
		t.Fatalf("expected 1 error log, got %d", len(logger.errors))
	}
}

func TestWrapHandler_ErrorLogged(t *testing.T) {
	logger := &recordingLogger{}
	c := &Client{subscriptions: make(map[string]subscription)}
	c.SetLogger(logger)

	wrapped := c.wrapHandler(func(string, []byte) error {
		return errors.New("bad payload")
	})
	wrapped(nil, fakeMessage{topic: "minetel/readings", payload: []byte("nope")})

	if len(logger.warnings) != 1 {
		t.Fatalf("expected 1 warning log, got %d", len(logger.warnings))
	}
	if len(logger.errors) != 0 {
		t.Errorf("expected no error logs, got %d", len(logger.errors))
	}
}

func TestWrapHandler_Success(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	var gotTopic string
	var gotPayload []byte
	wrapped := c.wrapHandler(func(topic string, payload []byte) error {
		gotTopic = topic
		gotPayload = payload
		return nil
	})
	wrapped(nil, fakeMessage{topic: "minetel/readings", payload: []byte(`{"type":"temp"}`)})

	if gotTopic != "minetel/readings" {
		t.Errorf("topic = %q", gotTopic)
	}
	if string(gotPayload) != `{"type":"temp"}` {
		t.Errorf("payload = %q", gotPayload)
	}
}

var _ pahomqtt.Message = fakeMessage{}
