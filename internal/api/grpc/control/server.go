package control

import (
	"context"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/alarm-reminder/internal/domain/reminder"
	"github.com/oshokin/alarm-reminder/internal/logger"
)

// StatusProvider abstracts the scheduler the transport reports on.
type StatusProvider interface {
	Status() domain.Status
}

// Server implements ControlService.
//
// Reset does not talk to the scheduler directly: it emits the reset token as an
// input line, so remote and keyboard resets share the dispatcher's single path.
type Server struct {
	// status reports the scheduler state.
	status StatusProvider
	// lines carries reset tokens to the dispatcher.
	lines chan string
}

// NewServer creates a control server reporting on the provided scheduler.
func NewServer(provider StatusProvider) *Server {
	return &Server{
		status: provider,
		lines:  make(chan string),
	}
}

// Lines returns the stream of input lines produced by remote resets.
func (s *Server) Lines() <-chan string {
	return s.lines
}

// Reset queues a reset on behalf of the remote actor.
func (s *Server) Reset(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	actor, err := ActorFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	current := s.status.Status()

	select {
	case s.lines <- domain.ResetToken:
	case <-ctx.Done():
		return nil, status.FromContextError(ctx.Err()).Err()
	}

	result := ResetResult{
		Accepted: current.Phase == domain.PhaseAwaitingReset,
		Status:   current,
	}

	logger.InfoKV(
		ctx,
		"Remote reset requested",
		"hostname", actor.Hostname,
		"username", actor.Username,
		"phase", current.Phase.String(),
		"accepted", result.Accepted,
	)

	return ResetResultToStruct(result), nil
}

// Status returns the current scheduler state.
func (s *Server) Status(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return StatusToStruct(s.status.Status()), nil
}

// RateLimitInterceptor rejects calls beyond the limiter's budget with ResourceExhausted.
func RateLimitInterceptor(limiter *rate.Limiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if !limiter.Allow() {
			logger.WarnKV(ctx, "Control request rejected by rate limit", "method", info.FullMethod)

			return nil, status.Error(codes.ResourceExhausted, "too many control requests")
		}

		return handler(ctx, req)
	}
}

// LoggerInterceptor puts the daemon logger into every request context.
func LoggerInterceptor(base context.Context) grpc.UnaryServerInterceptor {
	named := logger.WithName(base, "control")

	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		return handler(logger.ToContext(ctx, logger.FromContext(named)), req)
	}
}
