package mqtt

import (
	"context"
	"testing"
	"time"

	"github.com/bogdancondorachi/monitor-meteo-stations/internal/config"
)

func testConfig() config.Config {
	return config.Config{
		MQTTBroker:      "127.0.0.1",
		MQTTPort:        1,
		MQTTClientID:    "test",
		MQTTTopicPrefix: "stations",
	}
}

func TestTopic(t *testing.T) {
	if got := Topic("stations", "15420"); got != "stations/15420/latest" {
		t.Errorf("Topic = %q; want stations/15420/latest", got)
	}
	if got := Topic("meteo/ro", "15421"); got != "meteo/ro/15421/latest" {
		t.Errorf("Topic = %q; want meteo/ro/15421/latest", got)
	}
}

func TestBrokerURL(t *testing.T) {
	cfg := testConfig()
	cfg.MQTTBroker = "broker.local"
	cfg.MQTTPort = 1884
	if got := BrokerURL(cfg); got != "tcp://broker.local:1884" {
		t.Errorf("BrokerURL = %q", got)
	}
}

func TestPublishSnapshot_NotConnected(t *testing.T) {
	p := NewPublisher(testConfig(), nil)
	t.Cleanup(p.Disconnect)

	if err := p.PublishSnapshot("15420", []byte(`{}`)); err == nil {
		t.Fatal("PublishSnapshot() error = nil; want not connected error")
	}
}

func TestConnect_RespectsContext(t *testing.T) {
	p := NewPublisher(testConfig(), nil)
	t.Cleanup(p.Disconnect)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if err := p.Connect(ctx); err == nil {
		t.Fatal("Connect() error = nil; want error for unreachable broker")
	}
	if p.IsConnected() {
		t.Error("IsConnected() = true after failed connect")
	}
}

func TestConnect_AfterDisconnect(t *testing.T) {
	p := NewPublisher(testConfig(), nil)
	p.Disconnect()
	p.Disconnect() // idempotent

	if err := p.Connect(context.Background()); err == nil {
		t.Fatal("Connect() after Disconnect error = nil; want publisher stopped")
	}
}
