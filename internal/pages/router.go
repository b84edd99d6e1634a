package pages

import (
	"fmt"
)

// Route binds a path to the view mounted for it.
type Route struct {
	Path string
	View *View
}

// Router resolves request paths against a static route table. Paths are
// matched exactly; trailing slashes are not normalized.
type Router struct {
	routes   []Route
	byPath   map[string]*View
	notFound *View
}

// DefaultRoutes returns the application's route table.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", View: HomeView},
		{Path: "/specs", View: SpecManagementView},
		{Path: "/product", View: ProductPageView},
	}
}

// NewRouter builds a router from routes. Unmatched paths resolve to notFound.
// Empty or duplicate paths and nil views are rejected.
func NewRouter(routes []Route, notFound *View) (*Router, error) {
	if notFound == nil {
		return nil, fmt.Errorf("pages: not-found view is required")
	}

	r := &Router{
		routes:   make([]Route, 0, len(routes)),
		byPath:   make(map[string]*View, len(routes)),
		notFound: notFound,
	}

	for _, rt := range routes {
		if rt.Path == "" {
			return nil, fmt.Errorf("pages: route with empty path")
		}
		if rt.View == nil {
			return nil, fmt.Errorf("pages: route %q has no view", rt.Path)
		}
		if _, dup := r.byPath[rt.Path]; dup {
			return nil, fmt.Errorf("pages: duplicate route %q", rt.Path)
		}
		r.byPath[rt.Path] = rt.View
		r.routes = append(r.routes, rt)
	}

	return r, nil
}

// Resolve returns the view registered for path. When none matches it returns
// the not-found view and false.
func (r *Router) Resolve(path string) (*View, bool) {
	if v, ok := r.byPath[path]; ok {
		return v, true
	}
	return r.notFound, false
}

// Routes returns the route table in registration order.
func (r *Router) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}
