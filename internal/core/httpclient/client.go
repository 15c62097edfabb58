package httpclient

import (
	"context"
	"net/http"
	"time"

	"parcel-portal/internal/core/logger"
	"parcel-portal/internal/core/proxy"

	"go.uber.org/zap"
)

// RayIDHeader carries the request identifier to upstream services.
const RayIDHeader = "X-Ray-ID"

type rayIDKey struct{}

// WithRayID returns a context carrying the request identifier for outbound calls.
func WithRayID(ctx context.Context, rayID string) context.Context {
	return context.WithValue(ctx, rayIDKey{}, rayID)
}

// RayID extracts the request identifier from the context, if any.
func RayID(ctx context.Context) string {
	id, _ := ctx.Value(rayIDKey{}).(string)
	return id
}

// LoggingRoundTripper captures request details for debugging and forwards the Ray ID.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	rayID := RayID(req.Context())

	if rayID != "" && req.Header.Get(RayIDHeader) == "" {
		req = req.Clone(req.Context())
		req.Header.Set(RayIDHeader, rayID)
	}

	logger.Get().Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.String("ray_id", rayID),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		logger.Get().Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.Redacted()),
			zap.String("ray_id", rayID),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Get().Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.Redacted()),
		zap.String("ray_id", rayID),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// NewClient returns an http.Client with logging middleware.
// When proxy settings are configured, all requests go through that proxy.
func NewClient(timeout time.Duration, proxySettings proxy.Settings) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if u := proxySettings.URL(); u != nil {
		transport.Proxy = http.ProxyURL(u)
		logger.Get().Info("Upstream proxy configured", zap.String("proxy", proxySettings.HostPort()))
	}

	return &http.Client{
		Transport: &LoggingRoundTripper{
			Proxied: transport,
		},
		Timeout: timeout,
	}
}
