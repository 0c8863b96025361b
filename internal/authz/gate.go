package authz

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/skillport/skillport/internal/auth"
	"github.com/skillport/skillport/internal/identity"
)

// Gate is the edge-level role-path filter. It runs before any handler,
// costs no storage read, and only inspects the request path and the
// verified claim's role hint. Deeper checks happen in the facade.
type Gate struct {
	logger    *slog.Logger
	tokens    *auth.TokenService
	policy    *PolicyTable
	loginPath string
	denyPath  string
	secure    bool
}

// NewGate constructs the edge gate.
func NewGate(logger *slog.Logger, tokens *auth.TokenService, policy *PolicyTable, secure bool) *Gate {
	return &Gate{
		logger:    logger,
		tokens:    tokens,
		policy:    policy,
		loginPath: "/auth/login",
		denyPath:  "/unauthorized",
		secure:    secure,
	}
}

// Middleware classifies every request against the policy table. Protected
// paths without a valid credential are redirected to the login entry point
// rather than answered with a bare 401, since this gate fronts a browsable
// application. Role violations are redirected to the unauthorized entry
// point parameterized by the violating role. A known-bad token is cleared
// before redirecting so the client does not loop on it.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if !g.policy.Protected(path) {
			next.ServeHTTP(w, r)
			return
		}

		raw, err := auth.TokenFromRequest(r, false)
		if err != nil {
			g.redirectLogin(w, r)
			return
		}

		claims, err := g.tokens.Verify(raw)
		if err != nil {
			// Invalid or expired token on a protected path: clear it so the
			// next hit starts clean, then send the client to login.
			auth.ClearTokenCookie(w, g.secure)
			g.redirectLogin(w, r)
			return
		}

		role, err := identity.ParseRole(claims.Role)
		if err != nil {
			// A claim with a role outside the closed set is malformed, not
			// a lesser role. Fail closed.
			auth.ClearTokenCookie(w, g.secure)
			g.redirectLogin(w, r)
			return
		}

		if g.policy.Classify(path, role) == DecisionDeny {
			g.logger.Debug("gate denied path",
				slog.String("path", path),
				slog.String("role", string(role)))
			g.redirectDeny(w, r, role)
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithClaims(r.Context(), claims)))
	})
}

func (g *Gate) redirectLogin(w http.ResponseWriter, r *http.Request) {
	target := g.loginPath + "?next=" + url.QueryEscape(r.URL.Path)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (g *Gate) redirectDeny(w http.ResponseWriter, r *http.Request, role identity.Role) {
	target := g.denyPath + "?role=" + url.QueryEscape(string(role))
	http.Redirect(w, r, target, http.StatusSeeOther)
}
