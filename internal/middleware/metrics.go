package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/metrics"
)

// MetricsInterceptor counts calls and records unary latency.
func MetricsInterceptor(m *metrics.Metrics) connect.Interceptor {
	return metricsInterceptor{m: m}
}

type metricsInterceptor struct {
	m *metrics.Metrics
}

func codeOf(err error) string {
	if err == nil {
		return "ok"
	}
	return connect.CodeOf(err).String()
}

func (i metricsInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		start := time.Now()
		resp, err := next(ctx, req)
		procedure := req.Spec().Procedure
		i.m.RPCDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
		i.m.RPCRequests.WithLabelValues(procedure, codeOf(err)).Inc()
		return resp, err
	}
}

func (i metricsInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i metricsInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		i.m.StreamsActive.Inc()
		defer i.m.StreamsActive.Dec()
		err := next(ctx, conn)
		i.m.RPCRequests.WithLabelValues(conn.Spec().Procedure, codeOf(err)).Inc()
		return err
	}
}
