package middleware

import (
	"context"
	"net/http"

	authcore "github.com/keiruna/authcore"
)

type userIDContextKey struct{}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDContextKey{}).(string)
	return userID, ok
}

// httpRequest adapts *http.Request to the engine's request view.
type httpRequest struct {
	r *http.Request
}

func (a httpRequest) Path() string {
	return a.r.URL.Path
}

func (a httpRequest) Header(name string) string {
	return a.r.Header.Get(name)
}

func (a httpRequest) Cookie(name string) string {
	cookie, err := a.r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func Guard(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := authcore.WithClientIP(r.Context(), r.RemoteAddr)

			decision := engine.AuthenticateRequest(ctx, httpRequest{r: r})
			switch decision.Kind {
			case authcore.DecisionNotRequired:
				next.ServeHTTP(w, r)

			case authcore.DecisionAuthorized:
				ctx := context.WithValue(r.Context(), userIDContextKey{}, decision.UserID)
				next.ServeHTTP(w, r.WithContext(ctx))

			case authcore.DecisionForbidden:
				http.Error(w, "forbidden", http.StatusForbidden)

			default:
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			}
		})
	}
}
