package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// HealthServer exposes grpc.health.v1 for the storefront and its components.
// The empty service name reports on the process as a whole; components start
// NOT_SERVING until SetServing flips them.
type HealthServer struct {
	server     *grpc.Server
	health     *health.Server
	components []string
	log        *logrus.Logger
}

func NewHealthServer(logger *logrus.Logger, components ...string) *HealthServer {
	s := &HealthServer{
		server:     grpc.NewServer(),
		health:     health.NewServer(),
		components: components,
		log:        logger,
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)
	s.log.Info("gRPC reflection service registered")

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	for _, c := range components {
		s.health.SetServingStatus(c, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return s
}

// SetServing flips one component between SERVING and NOT_SERVING.
func (s *HealthServer) SetServing(component string, serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus(component, status)
	s.log.Infof("gRPC Health: %q is now %s", component, status)
}

// Serve reports the process SERVING and serves on lis until ctx is done, then
// marks everything NOT_SERVING and stops gracefully.
func (s *HealthServer) Serve(ctx context.Context, lis net.Listener) error {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("gRPC server listening on %s", lis.Addr())
		errCh <- s.server.Serve(lis)
	}()

	select {
	case err := <-errCh:
		s.health.Shutdown()
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Warn("Shutdown signal received, marking gRPC health NOT_SERVING")
	s.health.Shutdown()
	s.server.GracefulStop()
	s.log.Info("gRPC server gracefully stopped.")
	if err := <-errCh; err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
