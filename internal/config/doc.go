// Package config loads sensor-node configuration.
//
// Values are resolved in order: built-in defaults, an optional YAML file,
// then SENSOR_NODE_* environment variables. The result is validated before
// it is returned.
//
//	mqtt:
//	  broker: "tcp://thingsboard.local:1883"
//	  token: "device-access-token"
//	schedule:
//	  environmental: 10s
//	  digital: 1s
//	  mirror: 200ms
//
// Never log the MQTT token or password.
package config
