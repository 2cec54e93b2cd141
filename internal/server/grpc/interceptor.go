package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// loggingInterceptor logs each unary call with its status code and latency.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{
		"method", info.FullMethod,
		"code", code.String(),
		"duration", time.Since(start),
	}

	switch code {
	case codes.OK:
		s.logger.Debug(ctx, "grpc call", args...)
	case codes.Internal, codes.Unknown, codes.DataLoss, codes.Unavailable:
		s.logger.Error(ctx, "grpc call failed", append(args, "error", err)...)
	default:
		s.logger.Warn(ctx, "grpc call failed", append(args, "error", err)...)
	}

	return resp, err
}
