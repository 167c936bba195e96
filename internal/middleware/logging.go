package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and server stream. It logs the procedure name, device ID, duration, and
// any error codes/messages. Place it after RequireDevice so the device ID
// is known.
func LoggingInterceptor() connect.Interceptor {
	return loggingInterceptor{}
}

type loggingInterceptor struct{}

func (loggingInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		logRPC(ctx, "RPC", req.Spec().Procedure, start, err)
		return resp, err
	}
}

func (loggingInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (loggingInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		start := time.Now()
		slog.Info("Stream opened", "procedure", conn.Spec().Procedure, "device_id", GetDeviceID(ctx))
		err := next(ctx, conn)
		logRPC(ctx, "Stream", conn.Spec().Procedure, start, err)
		return err
	}
}

func logRPC(ctx context.Context, kind, procedure string, start time.Time, err error) {
	deviceID := GetDeviceID(ctx) // empty if pre-auth
	duration := time.Since(start).Milliseconds()

	if err == nil {
		slog.Info(kind+" ok",
			"procedure", procedure,
			"device_id", deviceID,
			"duration_ms", duration,
		)
		return
	}

	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		level := slog.LevelWarn
		if connectErr.Code() == connect.CodeInternal || connectErr.Code() == connect.CodeUnknown {
			level = slog.LevelError
		}
		// A client hanging up ends every stream
		if connectErr.Code() == connect.CodeCanceled {
			level = slog.LevelInfo
		}
		slog.Log(ctx, level, kind+" error",
			"procedure", procedure,
			"code", connectErr.Code(),
			"error", connectErr.Message(),
			"device_id", deviceID,
			"duration_ms", duration,
		)
		return
	}
	slog.Error(kind+" error",
		"procedure", procedure,
		"error", err,
		"device_id", deviceID,
		"duration_ms", duration,
	)
}
