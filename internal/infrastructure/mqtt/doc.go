// Package mqtt wraps paho.mqtt.golang for broker connectivity.
//
// The wrapper provides:
//   - Connection management with auto-reconnect and exponential backoff
//   - Last Will and Testament on the system status topic for offline detection
//   - Subscription tracking with automatic restore on reconnect
//   - Panic-recovered message handlers
//
// The surface is subscribe-focused: sensor gateways publish readings to the
// broker and this process consumes them. The only messages published from
// here are the retained online/offline status announcements.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(cfg.MQTT.Topic, byte(cfg.MQTT.QoS),
//	    func(topic string, payload []byte) error {
//	        return ingestor.Handle(topic, payload)
//	    })
package mqtt
