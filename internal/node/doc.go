// Package node runs the sensor node's concurrent tasks.
//
// Four goroutines run for the life of the process:
//
//   - the connectivity supervisor waits on the network-ready Signal and starts
//     the transport, opening the publish Gate after its first activation;
//   - the environmental sampler reads temperature/humidity every 10s and
//     publishes two telemetry messages while holding the Gate;
//   - the digital sampler publishes the three digital inputs every 1s as one
//     uninterrupted burst while holding the Gate;
//   - the indicator mirror copies inputs to the indicator outputs every 200ms
//     and never touches the Gate or the network.
//
// All cadences are fixed-delay: the next run is scheduled a constant duration
// after the previous one finished.
package node
