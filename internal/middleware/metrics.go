package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/bakery/internal/metrics"
)

// MetricsInterceptor records RPC counts and latency.
type MetricsInterceptor struct {
	metrics *metrics.Metrics
}

var _ connect.Interceptor = (*MetricsInterceptor)(nil)

// NewMetricsInterceptor returns an interceptor recording into m.
func NewMetricsInterceptor(m *metrics.Metrics) *MetricsInterceptor {
	return &MetricsInterceptor{metrics: m}
}

func (i *MetricsInterceptor) observe(procedure string, start time.Time, err error) {
	code := "ok"
	if err != nil {
		code = connect.CodeOf(err).String()
	}
	i.metrics.RPCRequests.WithLabelValues(procedure, code).Inc()
	i.metrics.RPCDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
}

// WrapUnary implements connect.Interceptor.
func (i *MetricsInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		start := time.Now()
		resp, err := next(ctx, req)
		i.observe(req.Spec().Procedure, start, err)
		return resp, err
	}
}

// WrapStreamingClient implements connect.Interceptor.
func (i *MetricsInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

// WrapStreamingHandler implements connect.Interceptor.
func (i *MetricsInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		i.metrics.OpenStreams.Inc()
		defer i.metrics.OpenStreams.Dec()
		start := time.Now()
		err := next(ctx, conn)
		i.observe(conn.Spec().Procedure, start, err)
		return err
	}
}
