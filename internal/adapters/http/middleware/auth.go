package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"fitclub/internal/application/outcome"
)

// Roles carried in the token.
const (
	RoleMember = "member"
	RoleStaff  = "staff"
)

const claimsContextKey = "fitclub.claims"

// Claims identifies the caller. Subject is the member id for members and
// the employee id for staff.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IsStaff reports whether the caller may use admin routes.
func (c Claims) IsStaff() bool {
	return c.Role == RoleStaff
}

// IssueToken signs an HS256 token for subject.
// PRE: secret is non-empty, role is RoleMember or RoleStaff
// POST: Returns a token valid for ttl
func IssueToken(secret []byte, subject, role string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("signing secret is empty")
	}
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseToken validates a token and returns its claims.
func ParseToken(secret []byte, token string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, err
	}
	if claims.Role != RoleMember && claims.Role != RoleStaff {
		return Claims{}, errors.New("unknown role")
	}
	return claims, nil
}

// Auth requires a valid bearer token and stores its claims on the context.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		claims, err := ParseToken(secret, token)
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("auth_rejected")
			abort(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireRole allows the request through only for the listed roles.
// PRE: Auth ran earlier in the chain
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "authentication required")
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "staff access required")
	}
}

// ClaimsFrom returns the caller's claims set by Auth.
func ClaimsFrom(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, outcome.Result[any]{Message: message})
}
