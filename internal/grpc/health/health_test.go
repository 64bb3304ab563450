package health

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"

	"elderguard/pkg/logger"
)

type flakyPinger struct{ err error }

func (f *flakyPinger) Ping(context.Context) error { return f.err }

func TestServer_Probe(t *testing.T) {
	p := &flakyPinger{}
	s := Register(grpc.NewServer(), map[string]Pinger{"redis": p}, 0, logger.Nop())
	ctx := context.Background()

	check := func() grpc_health_v1.HealthCheckResponse_ServingStatus {
		t.Helper()
		resp, err := s.health.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		return resp.Status
	}

	if got := check(); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("initial status = %v", got)
	}

	p.err = errors.New("connection refused")
	s.Probe(ctx)
	if got := check(); got != grpc_health_v1.HealthCheckResponse_NOT_SERVING {
		t.Errorf("status after failure = %v", got)
	}

	p.err = nil
	s.Probe(ctx)
	if got := check(); got != grpc_health_v1.HealthCheckResponse_SERVING {
		t.Errorf("status after recovery = %v", got)
	}
}
