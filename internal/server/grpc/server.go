// Package grpc runs the operational gRPC endpoint: the standard health
// service (public) and server reflection (bearer token required).
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// StorageService is the health service name reporting storage reachability.
const StorageService = "taskkeeper.storage"

const probeInterval = 15 * time.Second

// Authenticator validates an Authorization header value.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*auth.Claims, error)
}

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type GRPCServer struct {
	address string
	auth    Authenticator
	storage Pinger
	health  *health.Server
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, authn Authenticator, storage Pinger) *GRPCServer {
	return &GRPCServer{
		address: a,
		auth:    authn,
		storage: storage,
		health:  health.NewServer(),
		logger:  l.With("module", "grpc_server"),
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.accessTokenStreamInterceptor),
	)
	healthpb.RegisterHealthServer(srv, s.health)
	reflection.Register(srv)

	s.probe(ctx)
	go s.probeLoop(ctx)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}

func (s *GRPCServer) probeLoop(ctx context.Context) {
	ticker := time.NewTicker(probeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.probe(ctx)
		}
	}
}

// probe sets the overall and storage statuses from a storage ping.
func (s *GRPCServer) probe(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := s.storage.Ping(pingCtx); err != nil {
		s.logger.Warn(ctx, "storage ping failed", "error", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(StorageService, st)
}
