// Package grpc exposes the standard gRPC health and reflection services so
// orchestrators can probe showfinder and watch the catalog's availability.
package grpc

import (
	"net"
	"sync"

	grpcprom "github.com/grpc-ecosystem/go-grpc-middleware/providers/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// CatalogService is the health service name that follows the catalog circuit breaker.
const CatalogService = "showfinder.v1.Catalog"

var (
	grpcServerMetrics         *grpcprom.ServerMetrics
	registerServerMetricsOnce sync.Once
)

// HealthServer is a gRPC server carrying only health and reflection.
type HealthServer struct {
	server *grpc.Server
	health *health.Server
	logger zerolog.Logger
}

// NewHealthServer creates a health server with Prometheus interceptors. The
// overall and catalog statuses both start as SERVING.
func NewHealthServer(logger zerolog.Logger) *HealthServer {
	registerServerMetricsOnce.Do(func() {
		grpcServerMetrics = grpcprom.NewServerMetrics(
			grpcprom.WithServerHandlingTimeHistogram(),
		)
		prometheus.MustRegister(grpcServerMetrics)
	})

	srvMetrics := grpcServerMetrics
	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(srvMetrics.UnaryServerInterceptor()),
		grpc.ChainStreamInterceptor(srvMetrics.StreamServerInterceptor()),
	)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(CatalogService, grpc_health_v1.HealthCheckResponse_SERVING)

	// for grpcurl and grpc_health_probe discovery
	reflection.Register(grpcServer)
	srvMetrics.InitializeMetrics(grpcServer)

	return &HealthServer{
		server: grpcServer,
		health: healthServer,
		logger: logger.With().Str("component", "grpc").Logger(),
	}
}

// SetCatalogServing flips the catalog service status. It is meant to be used
// as the client's circuit breaker listener.
func (h *HealthServer) SetCatalogServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if !serving {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	h.logger.Info().Str("service", CatalogService).Str("status", status.String()).Msg("Catalog health changed")
	h.health.SetServingStatus(CatalogService, status)
}

// Serve blocks accepting connections on lis until Stop is called.
func (h *HealthServer) Serve(lis net.Listener) error {
	h.logger.Info().Str("address", lis.Addr().String()).Msg("Starting gRPC health server")
	return h.server.Serve(lis)
}

// Stop marks every service NOT_SERVING and drains open streams.
func (h *HealthServer) Stop() {
	h.health.Shutdown()
	h.server.GracefulStop()
}
