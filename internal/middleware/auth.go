package middleware

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tripjapan/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// DeviceIDKey is the context key for storing the authenticated device ID.
	DeviceIDKey contextKey = "device_id"
	// TripIDKey is the context key for storing the trip the device joined.
	TripIDKey contextKey = "trip_id"
)

// GetDeviceID extracts the device ID from the context.
// Returns empty string if not found.
func GetDeviceID(ctx context.Context) string {
	deviceID, _ := ctx.Value(DeviceIDKey).(string)
	return deviceID
}

// GetTripID extracts the trip ID from the context.
// Returns empty string if not found.
func GetTripID(ctx context.Context) string {
	tripID, _ := ctx.Value(TripIDKey).(string)
	return tripID
}

// WithDevice returns a context carrying the device identity.
func WithDevice(ctx context.Context, tripID, deviceID string) context.Context {
	ctx = context.WithValue(ctx, DeviceIDKey, deviceID)
	return context.WithValue(ctx, TripIDKey, tripID)
}

// RequireDevice returns an interceptor that validates device tokens on every
// unary call and server stream, except for the public procedures.
func RequireDevice(jwtManager *auth.JWTManager, public ...string) connect.Interceptor {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}
	return &deviceAuth{jwt: jwtManager, public: open}
}

type deviceAuth struct {
	jwt    *auth.JWTManager
	public map[string]bool
}

// authenticate adds the device identity from the Authorization header to ctx.
func (a *deviceAuth) authenticate(ctx context.Context, procedure, header string) (context.Context, error) {
	if a.public[procedure] {
		return ctx, nil
	}
	if header == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	// Parse Bearer token
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}

	claims, err := a.jwt.Validate(parts[1])
	if err != nil {
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}
	return WithDevice(ctx, claims.TripID, claims.DeviceID), nil
}

func (a *deviceAuth) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		ctx, err := a.authenticate(ctx, req.Spec().Procedure, req.Header().Get("Authorization"))
		if err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

func (a *deviceAuth) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (a *deviceAuth) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		ctx, err := a.authenticate(ctx, conn.Spec().Procedure, conn.RequestHeader().Get("Authorization"))
		if err != nil {
			return err
		}
		return next(ctx, conn)
	}
}
