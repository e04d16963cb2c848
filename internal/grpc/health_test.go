package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection/grpc_reflection_v1"
)

func startHealthServer(t *testing.T) (*HealthServer, *grpc.ClientConn) {
	t.Helper()
	srv := NewHealthServer(zerolog.Nop())

	lis, err := net.Listen("tcp", "localhost:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient(lis.Addr().String(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return srv, conn
}

func check(t *testing.T, conn *grpc.ClientConn, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		t.Fatalf("Health check for %q failed: %v", service, err)
	}
	return resp.Status
}

func TestHealthServer_ServingByDefault(t *testing.T) {
	_, conn := startHealthServer(t)

	if got := check(t, conn, ""); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("Expected overall SERVING, got %v", got)
	}
	if got := check(t, conn, CatalogService); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("Expected catalog SERVING, got %v", got)
	}
}

func TestHealthServer_FollowsCatalogState(t *testing.T) {
	srv, conn := startHealthServer(t)

	srv.SetCatalogServing(false)
	if got := check(t, conn, CatalogService); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Errorf("Expected catalog NOT_SERVING while the breaker is open, got %v", got)
	}
	if got := check(t, conn, ""); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("Expected overall status to stay SERVING, got %v", got)
	}

	srv.SetCatalogServing(true)
	if got := check(t, conn, CatalogService); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("Expected catalog SERVING after the breaker closed, got %v", got)
	}
}

func TestHealthServer_ReflectionListsHealth(t *testing.T) {
	_, conn := startHealthServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stream, err := grpc_reflection_v1.NewServerReflectionClient(conn).ServerReflectionInfo(ctx)
	if err != nil {
		t.Fatalf("Failed to open reflection stream: %v", err)
	}
	if err := stream.Send(&grpc_reflection_v1.ServerReflectionRequest{
		MessageRequest: &grpc_reflection_v1.ServerReflectionRequest_ListServices{ListServices: ""},
	}); err != nil {
		t.Fatalf("Failed to send reflection request: %v", err)
	}
	resp, err := stream.Recv()
	if err != nil {
		t.Fatalf("Failed to receive reflection response: %v", err)
	}

	found := false
	for _, svc := range resp.GetListServicesResponse().GetService() {
		if svc.GetName() == "grpc.health.v1.Health" {
			found = true
		}
	}
	if !found {
		t.Error("Expected grpc.health.v1.Health in reflection listing")
	}
}
