package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/blog-content-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const identityKey = "identity"

// Roles allowed to moderate comments
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// Claims represents the JWT claims accepted by the API
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity is the caller resolved from a bearer token
type Identity struct {
	UserID string
	Role   string
}

// GenerateToken signs a token for the given user; used by tooling and tests
func GenerateToken(cfg *config.AuthConfig, userID, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    cfg.Issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ValidateToken parses and verifies a bearer token
func ValidateToken(cfg *config.AuthConfig, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// authenticator resolves identities from the Authorization header
type authenticator struct {
	cfg *config.AuthConfig
	log zerolog.Logger
}

func newAuthenticator(cfg *config.AuthConfig, log zerolog.Logger) *authenticator {
	return &authenticator{cfg: cfg, log: log.With().Str("component", "auth").Logger()}
}

// resolve returns the identity of the request, or an error if a token is present but invalid
func (a *authenticator) resolve(c *gin.Context) (*Identity, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, nil
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errors.New("invalid authorization format")
	}

	claims, err := ValidateToken(a.cfg, strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// optional attaches an identity when a valid token is sent and ignores bad tokens
func (a *authenticator) optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.resolve(c)
		if err != nil {
			a.log.Debug().Err(err).Msg("Ignoring invalid token on optional route")
		}
		if identity != nil {
			c.Set(identityKey, identity)
		}
		c.Next()
	}
}

// required rejects requests without a valid token
func (a *authenticator) required() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := a.resolve(c)
		if err != nil || identity == nil {
			if err != nil {
				a.log.Debug().Err(err).Msg("Rejected token")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{
				Success: false,
				Message: "Authentication required",
			})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// requireRole rejects authenticated callers without one of the roles
func requireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := identityFrom(c)
		if identity == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Success: false, Message: "Authentication required"})
			return
		}
		for _, r := range roles {
			if identity.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, envelope{Success: false, Message: "Insufficient permissions"})
	}
}

// identityFrom returns the caller identity, or nil for anonymous requests
func identityFrom(c *gin.Context) *Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*Identity)
	return identity
}

func userIDFrom(c *gin.Context) string {
	if identity := identityFrom(c); identity != nil {
		return identity.UserID
	}
	return ""
}
