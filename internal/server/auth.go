package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"ride-booking/internal/models"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// Claims is the bearer token payload. The user id is read from user_id, then sub.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Identity returns the user id the token was issued for.
func (c *Claims) Identity() string {
	if strings.TrimSpace(c.UserID) != "" {
		return c.UserID
	}
	return c.Subject
}

// IssueToken signs an HS256 token for userID. Used by the dev CLI; the service only verifies.
func IssueToken(secret, userID, email, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is empty")
	}
	now := time.Now()
	claims := &Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// JWTMiddleware verifies the bearer token and stores "userID", "userEmail" and "userRole" on the context.
func JWTMiddleware(secret string) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		SigningKey:    []byte(secret),
		SigningMethod: jwt.SigningMethodHS256.Name,
		NewClaimsFunc: func(c echo.Context) jwt.Claims { return new(Claims) },
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, models.Fail(models.ErrInvalidToken.Error()))
		},
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return verify(func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return c.JSON(http.StatusUnauthorized, models.Fail(models.ErrInvalidToken.Error()))
			}
			claims, ok := token.Claims.(*Claims)
			if !ok || claims.Identity() == "" {
				return c.JSON(http.StatusUnauthorized, models.Fail("token has no user id"))
			}
			c.Set("userID", claims.Identity())
			c.Set("userEmail", claims.Email)
			c.Set("userRole", claims.Role)
			return next(c)
		})
	}
}
