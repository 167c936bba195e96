package apiconnect

import (
	"context"

	"connectrpc.com/connect"
)

// AuthorizationHeader carries the device token as "Bearer <token>".
const AuthorizationHeader = "Authorization"

// BearerToken returns a client interceptor that attaches the token returned
// by token to every call. Calls go out without the header while the token
// is empty.
func BearerToken(token func() string) connect.Interceptor {
	return &bearerInterceptor{token: token}
}

type bearerInterceptor struct {
	token func() string
}

func (b *bearerInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			if t := b.token(); t != "" {
				req.Header().Set(AuthorizationHeader, "Bearer "+t)
			}
		}
		return next(ctx, req)
	}
}

func (b *bearerInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return func(ctx context.Context, spec connect.Spec) connect.StreamingClientConn {
		conn := next(ctx, spec)
		if t := b.token(); t != "" {
			conn.RequestHeader().Set(AuthorizationHeader, "Bearer "+t)
		}
		return conn
	}
}

func (b *bearerInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return next
}
