package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/kindones/storefront/pkg/authclient"
	"github.com/kindones/storefront/pkg/tokens"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"

	RoleAdmin = "ADMIN"
)

var (
	errMissingToken = errors.New("missing access token")
	errRefreshOff   = errors.New("token expired")
)

// Auth validates session tokens issued by the authentication service and
// refreshes expired ones through it when a refresh token is present.
type Auth struct {
	JWTSecret  []byte
	AuthClient *authclient.Client

	// IsAdmin promotes accounts listed in ADMIN_EMAILS.
	IsAdmin func(email string) bool
}

type ValidatorFunc func(claims *tokens.AccessClaims) error

// OptionalAuth sets the session when a valid token is present and
// otherwise continues anonymously.
func (m *Auth) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims, err := m.claims(c); err == nil {
			m.setUserContext(c, claims)
		}
		return next(c)
	}
}

func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, nil)
}

func (m *Auth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuthWithValidator(next, func(claims *tokens.AccessClaims) error {
		if m.role(claims) != RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "Forbidden")
		}
		return nil
	})
}

func (m *Auth) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.claims(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		}
		if validator != nil {
			if err := validator(claims); err != nil {
				return err
			}
		}
		m.setUserContext(c, claims)
		return next(c)
	}
}

// claims parses the bearer header or the access cookie. An expired cookie
// session is refreshed once through the auth service.
func (m *Auth) claims(c echo.Context) (*tokens.AccessClaims, error) {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
		return tokens.AccessClaimsFromToken(strings.TrimPrefix(h, "Bearer "), m.JWTSecret)
	}

	access, err := c.Cookie(accessCookie)
	if err != nil || access.Value == "" {
		return nil, errMissingToken
	}

	claims, err := tokens.AccessClaimsFromToken(access.Value, m.JWTSecret)
	if err == nil {
		return claims, nil
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		clearAuthCookies(c)
		return nil, err
	}
	if m.AuthClient == nil {
		return nil, errRefreshOff
	}

	refresh, rErr := c.Cookie(refreshCookie)
	if rErr != nil || refresh.Value == "" {
		clearAuthCookies(c)
		return nil, errRefreshOff
	}

	resp, err := m.AuthClient.RefreshTokens(c.Request().Context(), refresh.Value, access.Value)
	if err != nil {
		clearAuthCookies(c)
		return nil, err
	}
	c.SetCookie(createCookie(accessCookie, resp.AccessToken, time.Unix(resp.AccessExp, 0)))
	c.SetCookie(createCookie(refreshCookie, resp.RefreshToken, time.Unix(resp.RefreshExp, 0)))

	claims, err = tokens.AccessClaimsFromToken(resp.AccessToken, m.JWTSecret)
	if err != nil {
		clearAuthCookies(c)
		return nil, err
	}
	return claims, nil
}

func (m *Auth) role(claims *tokens.AccessClaims) string {
	if m.IsAdmin != nil && m.IsAdmin(claims.Email) {
		return RoleAdmin
	}
	return strings.ToUpper(claims.Role)
}

func (m *Auth) setUserContext(c echo.Context, claims *tokens.AccessClaims) {
	c.Set("user_id", claims.Subject)
	c.Set("email", strings.ToLower(claims.Email))
	c.Set("name", claims.Name)
	c.Set("role", m.role(claims))
}

func createCookie(name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func clearAuthCookies(c echo.Context) {
	for _, name := range []string{accessCookie, refreshCookie} {
		c.SetCookie(&http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
}
