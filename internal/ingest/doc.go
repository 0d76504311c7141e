// Package ingest consumes sensor readings published over MQTT and stores
// them through the reading repository.
//
// Gateways publish the same JSON payload the HTTP create endpoint accepts:
//
//	{"type": "temperatura", "value": 28.5, "timestamp": "2025-04-01T17:14:10Z"}
//
// Malformed payloads are logged and dropped; they never stop the
// subscription. Storage failures are logged and the message is dropped as
// well, since gateways republish on their own cadence.
package ingest
