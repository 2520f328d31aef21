// Package prometheus records service metrics with the Prometheus client.
package prometheus
