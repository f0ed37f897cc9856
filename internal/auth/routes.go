package auth

import (
	"net/http"
	"strings"
)

// Route is a method plus a path pattern. Pattern segments starting with ':'
// match exactly one non-empty path segment.
type Route struct {
	Method  string
	Pattern string
}

type compiledRoute struct {
	method   string
	segments []string
}

// RouteSet is an immutable allow-list of route patterns.
type RouteSet struct {
	routes []compiledRoute
}

// NewRouteSet compiles the given routes.
func NewRouteSet(routes ...Route) RouteSet {
	compiled := make([]compiledRoute, 0, len(routes))
	for _, r := range routes {
		compiled = append(compiled, compiledRoute{
			method:   strings.ToUpper(r.Method),
			segments: splitPath(normalizePath(r.Pattern)),
		})
	}
	return RouteSet{routes: compiled}
}

// Match reports whether method and path match any pattern in the set.
// HEAD requests match GET patterns.
func (s RouteSet) Match(method, path string) bool {
	method = strings.ToUpper(method)
	if method == http.MethodHead {
		method = http.MethodGet
	}
	segments := splitPath(normalizePath(path))
	for _, r := range s.routes {
		if r.method == method && r.matches(segments) {
			return true
		}
	}
	return false
}

func (r compiledRoute) matches(segments []string) bool {
	if len(r.segments) != len(segments) {
		return false
	}
	for i, want := range r.segments {
		got := segments[i]
		if strings.HasPrefix(want, ":") {
			if got == "" {
				return false
			}
			continue
		}
		if want != got {
			return false
		}
	}
	return true
}

// DefaultPublicRoutes lists the endpoints reachable without a token.
func DefaultPublicRoutes() RouteSet {
	return NewRouteSet(
		Route{http.MethodGet, "/api/publications"},
		Route{http.MethodGet, "/api/publications/:id"},
		Route{http.MethodGet, "/api/publications/slug/:slug"},
		Route{http.MethodGet, "/api/tags"},
		Route{http.MethodGet, "/api/tags/:id"},
		Route{http.MethodGet, "/api/categories"},
		Route{http.MethodGet, "/api/comments"},
		Route{http.MethodGet, "/api/directors"},
		Route{http.MethodGet, "/api/directors/:id"},
		Route{http.MethodGet, "/api/contact-subjects"},
		Route{http.MethodGet, "/api/roles"},
		Route{http.MethodGet, "/api/gallery"},
		Route{http.MethodPost, "/api/auth/login"},
		Route{http.MethodPost, "/api/auth/register"},
		Route{http.MethodPost, "/api/contact"},
	)
}

// hasPathPrefix reports whether path equals prefix or continues it with a
// new segment, so "/api/users" covers "/api/users/7" but not "/api/usersx".
func hasPathPrefix(path, prefix string) bool {
	path = normalizePath(path)
	prefix = normalizePath(prefix)
	if prefix == "/" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func hasAnyPathPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if hasPathPrefix(path, p) {
			return true
		}
	}
	return false
}

// normalizePath lower-cases the path and drops trailing slashes, mirroring
// the router's case-insensitive, non-strict matching.
func normalizePath(path string) string {
	path = strings.ToLower(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

func splitPath(path string) []string {
	if path == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}
