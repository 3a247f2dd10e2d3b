package daemon

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"

	"github.com/oshokin/alarm-reminder/internal/api/grpc/control"
	"github.com/oshokin/alarm-reminder/internal/config"
	"github.com/oshokin/alarm-reminder/internal/logger"
)

// serveControl starts the control endpoint in the background.
// The returned channel yields the serve result once the server has fully stopped after ctx is canceled.
func serveControl(ctx context.Context, settings *config.Control, srv *control.Server) (<-chan error, error) {
	ctx = logger.WithName(ctx, "control")

	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", settings.Address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", settings.Address, err)
	}

	burst := max(1, int(math.Ceil(settings.RequestsPerSecond)))
	limiter := rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), burst)

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		control.LoggerInterceptor(ctx),
		control.RateLimitInterceptor(limiter),
	))
	control.RegisterControlServer(grpcServer, srv)

	logger.InfoKV(
		ctx,
		"Control endpoint listening",
		"listen_address", lis.Addr().String(),
		"requests_per_second", settings.RequestsPerSecond,
	)

	stopped := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down control endpoint")

		// Resets still waiting for the dispatcher would hold GracefulStop forever.
		force := time.AfterFunc(settings.Timeout, grpcServer.Stop)
		grpcServer.GracefulStop()
		force.Stop()

		close(stopped)
	}()

	done := make(chan error, 1)

	go func() {
		err := grpcServer.Serve(lis)
		if err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.ErrorKV(ctx, "Control endpoint failed", "error", err)

			done <- fmt.Errorf("serve control: %w", err)

			return
		}

		<-stopped
		logger.Info(ctx, "Control endpoint stopped")

		done <- nil
	}()

	return done, nil
}
