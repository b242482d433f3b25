package middleware

import (
	"context"
	"crypto/subtle"
	"leadtime/config"
	"leadtime/infras/otel"
	"leadtime/shared/constant"
	"leadtime/shared/failure"
	"leadtime/transport/http/response"
	"net/http"
)

// Admin gates the staff-only routes behind a shared API key.
type Admin interface {
	APIKey(next http.Handler) http.Handler
}

type adminImpl struct {
	otel otel.Otel
	cfg  *config.Config
}

func NewAdminMiddleware(otel otel.Otel, cfg *config.Config) Admin {
	return &adminImpl{
		otel: otel,
		cfg:  cfg,
	}
}

// APIKey rejects requests whose X-API-Key header does not match the configured
// key, and stamps accepted requests with the staff actor.
func (m *adminImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := request.Context()
		_, scope := m.otel.NewScope(ctx, constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)

		if m.cfg.App.APIKey == constant.Empty ||
			subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.cfg.App.APIKey)) != 1 {
			err := failure.ForbiddenError
			response.WithError(writer, err)

			scope.TraceError(err)
			scope.End()

			return
		}

		ctx = context.WithValue(ctx, constant.ContextKeyActor, constant.ActorStaff)

		scope.End()
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
