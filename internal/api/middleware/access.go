package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vbforge/product-catalog/internal/api/metrics"
	"github.com/vbforge/product-catalog/internal/core/domain"
)

// Decision is the outcome of evaluating a request against the access table.
type Decision int

const (
	Allow Decision = iota
	DenyUnauthorized
	DenyForbidden
)

type policyKind int

const (
	policyPublic policyKind = iota
	policyAuthenticated
	policyRoles
)

// Policy is the access requirement declared for a group of routes.
type Policy struct {
	kind  policyKind
	roles []string
}

// Public allows every request.
func Public() Policy { return Policy{kind: policyPublic} }

// Authenticated allows any request with an attached identity.
func Authenticated() Policy { return Policy{kind: policyAuthenticated} }

// Roles allows requests whose identity carries at least one of the given roles.
func Roles(roles ...string) Policy { return Policy{kind: policyRoles, roles: roles} }

// Rule binds a method/pattern pair to a policy. Method "" matches every
// method. Patterns match exactly, or by prefix when they end in "/**"
// (the pattern base itself also matches).
type Rule struct {
	Method  string
	Pattern string
	Policy  Policy
}

// Table is an ordered list of rules; the first matching rule wins. Requests
// matching no rule fall back to Authenticated.
type Table []Rule

// Evaluate decides the outcome for a request. identity is nil when no
// identity was attached by the authentication middleware. A missing
// identity always yields DenyUnauthorized, never DenyForbidden: 403 is
// reserved for a present identity with insufficient roles.
func (t Table) Evaluate(method, path string, identity *domain.Identity) Decision {
	policy := t.policyFor(method, path)

	switch policy.kind {
	case policyPublic:
		return Allow
	case policyAuthenticated:
		if identity == nil {
			return DenyUnauthorized
		}
		return Allow
	default:
		if identity == nil {
			return DenyUnauthorized
		}
		for _, role := range policy.roles {
			if identity.HasRole(role) {
				return Allow
			}
		}
		return DenyForbidden
	}
}

func (t Table) policyFor(method, path string) Policy {
	for _, rule := range t {
		if rule.Method != "" && rule.Method != method {
			continue
		}
		if matchPattern(rule.Pattern, path) {
			return rule.Policy
		}
	}
	return Authenticated()
}

func matchPattern(pattern, path string) bool {
	const wildcard = "/**"
	if strings.HasSuffix(pattern, wildcard) {
		// A bare "/**" has an empty base and matches every path.
		base := strings.TrimSuffix(pattern, wildcard)
		return path == base || strings.HasPrefix(path, base+"/")
	}
	return path == pattern
}

// denyResponse is the JSON envelope returned on every 401/403.
type denyResponse struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
}

// Enforce evaluates the table for every request. It must be registered
// after Authenticate so the identity has had a chance to be attached, and
// it runs before any route handler. Denials are rendered directly; allowed
// requests continue down the chain.
func Enforce(table Table) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var identity *domain.Identity
			if id, ok := IdentityFrom(c); ok {
				identity = &id
			}

			req := c.Request()
			switch table.Evaluate(req.Method, req.URL.Path, identity) {
			case DenyUnauthorized:
				metrics.AccessDeniedTotal.WithLabelValues("unauthorized").Inc()
				return deny(c, http.StatusUnauthorized, "Unauthorized",
					"Authentication required. Please provide a valid JWT token.")
			case DenyForbidden:
				metrics.AccessDeniedTotal.WithLabelValues("forbidden").Inc()
				return deny(c, http.StatusForbidden, "Forbidden",
					"Access denied. You don't have sufficient permissions.")
			}
			return next(c)
		}
	}
}

func deny(c echo.Context, status int, label, message string) error {
	return c.JSON(status, denyResponse{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Status:    status,
		Error:     label,
		Message:   message,
		Path:      c.Request().URL.Path,
	})
}
