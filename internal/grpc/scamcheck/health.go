package scamcheck

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/krxsh13/ScamGuard/pkg/logger"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

const healthInterval = 10 * time.Second

// RegisterHealthServer registers the gRPC health service and keeps it in step
// with checks until ctx is done. The engine needs no dependency, so an empty
// checks map reports SERVING permanently.
func RegisterHealthServer(ctx context.Context, grpcServer *grpc.Server, checks map[string]HealthCheck, log *logger.Logger) *health.Server {
	healthServer := health.NewServer()
	setStatus(healthServer, grpc_health_v1.HealthCheckResponse_SERVING)
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	if len(checks) == 0 {
		return healthServer
	}

	log = log.WithComponent("grpc-health")
	go func() {
		ticker := time.NewTicker(healthInterval)
		defer ticker.Stop()

		for {
			setStatus(healthServer, probe(ctx, checks, log))

			select {
			case <-ctx.Done():
				healthServer.Shutdown()
				return
			case <-ticker.C:
			}
		}
	}()

	return healthServer
}

func probe(ctx context.Context, checks map[string]HealthCheck, log *logger.Logger) grpc_health_v1.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	for name, check := range checks {
		if err := check(ctx); err != nil {
			log.Warn().Err(err).Str("dependency", name).Msg("health check failed")
			return grpc_health_v1.HealthCheckResponse_NOT_SERVING
		}
	}
	return grpc_health_v1.HealthCheckResponse_SERVING
}

func setStatus(s *health.Server, st grpc_health_v1.HealthCheckResponse_ServingStatus) {
	s.SetServingStatus("", st)
	s.SetServingStatus(ServiceName, st)
}
