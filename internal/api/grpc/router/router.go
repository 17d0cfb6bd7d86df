package router

import (
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"

	"github.com/dtroode/ipgeo-server/internal/api/grpc/middleware"
	"github.com/dtroode/ipgeo-server/internal/logger"
)

// ServiceName is the health service name reported for the HTTP API.
const ServiceName = "ipgeo.API"

// Router represents the gRPC router exposing health and reflection.
type Router struct {
	health *health.Server
	logger *logger.Logger
}

// New creates new gRPC Router instance. Every service starts NOT_SERVING.
func New(logger *logger.Logger) *Router {
	r := &Router{
		health: health.NewServer(),
		logger: logger,
	}
	r.SetServing(false)
	return r
}

// Register builds the gRPC server with the health service, reflection and
// the logging and recovery interceptors.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(r.recoverPanic)),
			logging.HandleGRPC,
		),
		grpc.ChainStreamInterceptor(
			recovery.StreamServerInterceptor(recovery.WithRecoveryHandler(r.recoverPanic)),
		),
	)

	healthpb.RegisterHealthServer(s, r.health)
	reflection.Register(s)

	return s
}

// SetServing flips both the overall and the API health status.
func (r *Router) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	r.health.SetServingStatus("", st)
	r.health.SetServingStatus(ServiceName, st)
}

func (r *Router) recoverPanic(p any) error {
	r.logger.Error("gRPC handler panicked",
		"panic", p)
	return status.Error(codes.Internal, "internal error")
}
