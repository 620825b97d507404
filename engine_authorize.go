package authcore

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/keiruna/authcore/policy"
)

// AuthenticateRequest describes the authenticaterequest operation and its observable behavior.
//
// AuthenticateRequest evaluates a request against the exclusion policy and
// the configured credential mode. The outcome is one of four kinds:
//
//   - [DecisionNotRequired] when the path is excluded from authentication
//   - [DecisionAuthorized] when exactly one credential is present and resolves
//   - [DecisionUnauthenticated] when no credential is present, or when both a
//     header credential and a session cookie are presented at once
//   - [DecisionForbidden] when a credential is present but does not resolve
//
// AuthenticateRequest does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuthenticateRequest(ctx context.Context, r Request) Decision {
	if e == nil || r == nil {
		return Decision{Kind: DecisionUnauthenticated}
	}

	header := policy.CredentialHeader(r, e.config.Policy.CredentialHeader)
	cookie := policy.SessionCookie(r, e.config.Policy.SessionCookie)

	return e.Authorize(ctx, r.Path(), header, cookie)
}

// Authorize describes the authorize operation and its observable behavior.
//
// Authorize is the transport-free form of [Engine.AuthenticateRequest]:
// the caller has already extracted the header credential and session cookie
// values. Empty strings mean absent.
func (e *Engine) Authorize(ctx context.Context, path, header, cookie string) Decision {
	if e == nil {
		return Decision{Kind: DecisionUnauthenticated}
	}

	if !e.exclusions.RequiresAuth(path) {
		e.metrics.Inc(MetricAuthorizeNotRequired)
		return Decision{Kind: DecisionNotRequired}
	}

	// A header credential and a session cookie on the same request is
	// ambiguous; it is rejected rather than arbitrated.
	if header != "" && cookie != "" {
		e.metrics.Inc(MetricAuthorizeUnauthenticated)
		e.emitAuthorize(ctx, path, "", false, "ambiguous credentials")
		return Decision{Kind: DecisionUnauthenticated}
	}
	if header == "" && cookie == "" {
		e.metrics.Inc(MetricAuthorizeUnauthenticated)
		return Decision{Kind: DecisionUnauthenticated}
	}

	userID, ok := e.resolveCredential(ctx, header, cookie)
	if !ok {
		e.metrics.Inc(MetricAuthorizeForbidden)
		e.emitAuthorize(ctx, path, "", false, "credential rejected")
		return Decision{Kind: DecisionForbidden}
	}

	e.metrics.Inc(MetricAuthorizeAuthorized)
	return Decision{
		Kind:   DecisionAuthorized,
		UserID: userID,
	}
}

// resolveCredential maps the presented credential to a user id under the
// configured mode. A credential of the wrong kind for the mode fails
// resolution rather than being ignored.
func (e *Engine) resolveCredential(ctx context.Context, header, cookie string) (string, bool) {
	switch e.config.Mode {
	case ModeSession:
		if cookie == "" {
			return "", false
		}
		return e.sessionStore.Resolve(cookie)

	case ModeBasic:
		if header == "" {
			return "", false
		}
		return e.resolveBasic(ctx, header)

	case ModeBearer:
		if header == "" {
			return "", false
		}
		return e.resolveBearer(header)

	default:
		return "", false
	}
}

// resolveBasic checks an RFC 7617 Basic credential against the stored hash.
func (e *Engine) resolveBasic(ctx context.Context, header string) (string, bool) {
	payload, ok := stripScheme(header, "Basic")
	if !ok {
		return "", false
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}

	identifier, plaintext, found := strings.Cut(string(raw), ":")
	if !found || identifier == "" {
		return "", false
	}

	user, err := e.verifyCredentials(ctx, identifier, plaintext)
	if err != nil {
		return "", false
	}
	return user.UserID, true
}

// resolveBearer verifies a signed bearer token and confirms the subject still
// exists.
func (e *Engine) resolveBearer(header string) (string, bool) {
	if e.bearer == nil {
		return "", false
	}

	payload, ok := stripScheme(header, "Bearer")
	if !ok {
		return "", false
	}

	claims, err := e.bearer.Parse(payload)
	if err != nil {
		return "", false
	}

	if _, err := e.userProvider.GetUserByID(claims.UID); err != nil {
		return "", false
	}
	return claims.UID, true
}

// stripScheme removes a "<Scheme> " prefix, matching the scheme name
// case-insensitively as HTTP auth schemes require.
func stripScheme(header, scheme string) (string, bool) {
	if len(header) <= len(scheme)+1 {
		return "", false
	}
	if !strings.EqualFold(header[:len(scheme)], scheme) || header[len(scheme)] != ' ' {
		return "", false
	}

	payload := strings.TrimSpace(header[len(scheme)+1:])
	if payload == "" {
		return "", false
	}
	return payload, true
}

func (e *Engine) emitAuthorize(ctx context.Context, path, userID string, success bool, reason string) {
	event := AuditEvent{
		EventType: auditEventAuthorize,
		UserID:    userID,
		Success:   success,
		Metadata:  map[string]string{"path": path},
	}
	if reason != "" {
		event.Error = reason
	}
	e.emit(ctx, event)
}
