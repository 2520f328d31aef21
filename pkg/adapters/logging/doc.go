// Package logging builds the service's zap logger.
//
// Every line is a JSON object with the envelope severity, message and
// timestamp, plus event-specific fields.
package logging
