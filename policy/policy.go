package policy

// Request is the narrow view of an inbound HTTP request the core depends on.
// The adapter layer implements it over its framework's request type.
//
// Header and Cookie return the empty string when the named value is absent.
type Request interface {
	Path() string
	Header(name string) string
	Cookie(name string) string
}

// Exclusions defines a public type used by authcore APIs.
//
// Exclusions instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Exclusions struct {
	paths map[string]struct{}
}

// NewExclusions describes the newexclusions operation and its observable behavior.
//
// Paths are normalized with a trailing slash before storage, so
// "/api/v1/status" and "/api/v1/status/" configure the same exclusion.
// NewExclusions does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewExclusions(paths []string) Exclusions {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		set[NormalizePath(p)] = struct{}{}
	}
	return Exclusions{paths: set}
}

// Len describes the len operation and its observable behavior.
//
// Len does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e Exclusions) Len() int {
	return len(e.paths)
}

// RequiresAuth describes the requiresauth operation and its observable behavior.
//
// An empty path or an empty exclusion set always requires authentication;
// otherwise the normalized path is tested for exact membership.
// RequiresAuth does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e Exclusions) RequiresAuth(path string) bool {
	if path == "" || len(e.paths) == 0 {
		return true
	}
	_, excluded := e.paths[NormalizePath(path)]
	return !excluded
}

// RequiresAuth reports whether path requires authentication against the given
// exclusion list. Convenience form of [Exclusions.RequiresAuth] for callers
// that have not pre-built the set.
func RequiresAuth(path string, exclusions []string) bool {
	return NewExclusions(exclusions).RequiresAuth(path)
}

// NormalizePath describes the normalizepath operation and its observable behavior.
//
// NormalizePath does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizePath(path string) string {
	if path == "" {
		return path
	}
	if path[len(path)-1] != '/' {
		return path + "/"
	}
	return path
}

// CredentialHeader describes the credentialheader operation and its observable behavior.
//
// The raw header value is returned without scheme parsing; absent requests or
// headers yield the empty string.
// CredentialHeader does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CredentialHeader(r Request, name string) string {
	if r == nil || name == "" {
		return ""
	}
	return r.Header(name)
}

// SessionCookie describes the sessioncookie operation and its observable behavior.
//
// SessionCookie does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func SessionCookie(r Request, name string) string {
	if r == nil || name == "" {
		return ""
	}
	return r.Cookie(name)
}
