// Package events provides prediction event bus implementations.
//
// Implementations:
//   - memory: in-process fan-out (default, feeds the WebSocket stream)
//   - redis: Redis Streams, so other processes can tail predictions
package events
