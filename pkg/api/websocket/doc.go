// Package websocket provides real-time event streaming via WebSocket.
//
// Clients can connect to /ws/predictions to receive every prediction event
// as a JSON text message. The optional "type" query parameter restricts the
// stream to one event type, e.g. /ws/predictions?type=prediction.failed.
package websocket
