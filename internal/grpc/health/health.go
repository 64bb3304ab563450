package health

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"elderguard/pkg/logger"
)

// ServiceName is the health service name reported for the analysis API
const ServiceName = "elderguard.v1.AnalysisService"

// Pinger is a dependency whose reachability decides the serving status
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server publishes grpc.health.v1 status derived from periodic dependency pings
type Server struct {
	health   *health.Server
	checks   map[string]Pinger
	interval time.Duration
	logger   *logger.Logger
}

// Register creates the health server and registers it on grpcServer
func Register(grpcServer *grpc.Server, checks map[string]Pinger, interval time.Duration, log *logger.Logger) *Server {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	s := &Server{
		health:   health.NewServer(),
		checks:   checks,
		interval: interval,
		logger:   log.WithComponent("grpc-health"),
	}
	s.set(grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, s.health)
	return s
}

// Run updates the serving status until ctx is done
func (s *Server) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.Probe(ctx)
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
		}
	}
}

// Probe pings every dependency once and updates the status
func (s *Server) Probe(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := grpc_health_v1.HealthCheckResponse_SERVING
	for name, p := range s.checks {
		if err := p.Ping(ctx); err != nil {
			s.logger.Warn().Err(err).Str("dependency", name).Msg("dependency unhealthy")
			status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	s.set(status)
}

func (s *Server) set(status grpc_health_v1.HealthCheckResponse_ServingStatus) {
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}
