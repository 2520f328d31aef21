// Package grpc provides the gRPC API: the standard grpc.health.v1 service
// mirroring the liveness and readiness probes, plus server reflection.
package grpc
