package web

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/hpungsan/outreach/internal/auth"
	"github.com/hpungsan/outreach/internal/errors"
)

// SessionCookie holds the signed session token.
const SessionCookie = "outreach_session"

type claimsKey struct{}

func withClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

func claimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok && c != nil
}

// requireSession rejects requests without a valid session token, taken
// from the cookie or an Authorization: Bearer header. Browsers are sent to
// the login page; API clients get 401.
func (h *Handlers) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.auth == nil {
			next(w, r)
			return
		}

		token := bearerToken(r)
		if token == "" {
			if c, err := r.Cookie(SessionCookie); err == nil {
				token = c.Value
			}
		}

		var err error = errors.NewAuthFailed(auth.MsgInvalidSession)
		if token != "" {
			var claims *auth.Claims
			if claims, err = h.auth.Verify(token); err == nil {
				next(w, r.WithContext(withClaims(r.Context(), claims)))
				return
			}
		}

		if wantsJSON(r) || isHTMX(r) {
			h.renderer.renderError(w, r, err)
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(rest)
	}
	return ""
}

// HandleLoginPage handles GET /login.
func (h *Handlers) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, LoginPageData{Notice: r.URL.Query().Get("notice")})
}

// HandleLogin handles POST /login.
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, h.auth.SignIn)
}

// HandleSignup handles POST /signup.
func (h *Handlers) HandleSignup(w http.ResponseWriter, r *http.Request) {
	h.authenticate(w, r, h.auth.SignUp)
}

// HandleLogout handles POST /logout by expiring the cookie.
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, map[string]any{"signed_out": true})
		return
	}
	http.Redirect(w, r, "/login?notice=Signed+out", http.StatusSeeOther)
}

type authFunc func(ctx context.Context, email, password string) (*auth.Session, error)

// authenticate runs sign-in or sign-up and sets the session cookie.
// Provider messages are shown verbatim.
func (h *Handlers) authenticate(w http.ResponseWriter, r *http.Request, fn authFunc) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	email := r.PostFormValue("email")

	session, err := fn(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		var oErr *errors.OutreachError
		if stderrors.As(err, &oErr) && oErr.Code == errors.ErrAuthFailed && !wantsJSON(r) {
			h.renderLogin(w, r, oErr.Status, LoginPageData{Email: email, Error: oErr.Message})
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.AccessToken,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	h.log.Info(r.Context(), "signed in", "user_id", session.UserID)

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, session)
		return
	}
	http.Redirect(w, r, "/contacts", http.StatusSeeOther)
}

func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, status int, data LoginPageData) {
	data.PageData = h.pageData(r, "Sign in", "login")
	h.renderer.renderPageStatus(w, r, status, "login", data)
}
