package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures cross-origin request handling.
type CORSConfig struct {
	// AllowOrigins lists origins permitted to make cross-origin requests.
	// Empty, or a single "*", allows every origin.
	AllowOrigins []string

	// AllowMethods lists methods advertised on preflight responses.
	// Defaults to the API's method set when empty.
	AllowMethods []string

	// AllowHeaders lists request headers advertised on preflight responses.
	// When empty the preflight's Access-Control-Request-Headers is echoed.
	AllowHeaders []string

	// ExposeHeaders lists response headers browsers may read.
	ExposeHeaders []string

	// AllowCredentials permits cookies and auth headers on cross-origin
	// requests. Incompatible with the "*" origin, so enabling it forces
	// per-origin matching.
	AllowCredentials bool

	// MaxAge is the preflight cache lifetime in seconds. Zero omits the
	// header, negative sends "0" to disable caching.
	MaxAge int
}

// cors holds the precomputed header values shared by every request.
type cors struct {
	anyOrigin     bool
	origins       map[string]string // lowercased origin -> as-configured
	methods       string
	headers       string
	expose        string
	maxAge        string
	credentialled bool
}

// CORS returns a middleware handling both preflight and actual
// cross-origin requests. Origin matching is case-insensitive, and Vary
// headers are set so shared caches never serve one origin's response to
// another.
func CORS(cfg CORSConfig) Middleware {
	c := &cors{
		anyOrigin:     len(cfg.AllowOrigins) == 0,
		origins:       make(map[string]string, len(cfg.AllowOrigins)),
		methods:       strings.Join(cfg.AllowMethods, ", "),
		headers:       strings.Join(cfg.AllowHeaders, ", "),
		expose:        strings.Join(cfg.ExposeHeaders, ", "),
		credentialled: cfg.AllowCredentials,
	}
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			c.anyOrigin = true
			break
		}
		c.origins[strings.ToLower(o)] = o
	}
	if c.credentialled {
		// The wildcard is forbidden with credentials; match per origin.
		c.anyOrigin = false
	}
	if c.methods == "" {
		c.methods = "GET, POST, PUT, DELETE, OPTIONS"
	}
	switch {
	case cfg.MaxAge > 0:
		c.maxAge = strconv.Itoa(cfg.MaxAge)
	case cfg.MaxAge < 0:
		c.maxAge = "0"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Same-origin request, but caches must still key on Origin.
				if !c.anyOrigin {
					w.Header().Add("Vary", "Origin")
				}
				next.ServeHTTP(w, r)
				return
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				c.preflight(w, r, origin)
				return
			}

			c.actual(w, origin)
			next.ServeHTTP(w, r)
		})
	}
}

func (c *cors) preflight(w http.ResponseWriter, r *http.Request, origin string) {
	h := w.Header()
	h.Add("Vary", "Origin")
	h.Add("Vary", "Access-Control-Request-Method")
	h.Add("Vary", "Access-Control-Request-Headers")

	allow := c.allowValue(origin)
	if allow == "" {
		// Unknown origin: answer the preflight without CORS grants.
		w.WriteHeader(http.StatusNoContent)
		return
	}

	h.Set("Access-Control-Allow-Origin", allow)
	h.Set("Access-Control-Allow-Methods", c.methods)
	if c.headers != "" {
		h.Set("Access-Control-Allow-Headers", c.headers)
	} else if req := r.Header.Get("Access-Control-Request-Headers"); req != "" {
		h.Set("Access-Control-Allow-Headers", req)
	}
	if c.credentialled {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if c.maxAge != "" {
		h.Set("Access-Control-Max-Age", c.maxAge)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *cors) actual(w http.ResponseWriter, origin string) {
	h := w.Header()
	if !c.anyOrigin {
		h.Add("Vary", "Origin")
	}
	allow := c.allowValue(origin)
	if allow == "" {
		return
	}
	h.Set("Access-Control-Allow-Origin", allow)
	if c.credentialled {
		h.Set("Access-Control-Allow-Credentials", "true")
	}
	if c.expose != "" {
		h.Set("Access-Control-Expose-Headers", c.expose)
	}
}

// allowValue resolves the Access-Control-Allow-Origin value for origin,
// or "" when the origin is not allowed.
func (c *cors) allowValue(origin string) string {
	if c.anyOrigin {
		return "*"
	}
	return c.origins[strings.ToLower(origin)]
}
