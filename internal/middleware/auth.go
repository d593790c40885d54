package middleware

import (
	"ecommerce-shop/internal/apperr"
	"ecommerce-shop/internal/model"
	"ecommerce-shop/internal/service"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const actorKey = "actor"

type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 bearer token for the user.
func IssueToken(secret string, user *model.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (service.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return service.Actor{}, fmt.Errorf("parse token: %w", err)
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return service.Actor{}, errors.New("token subject is not a user id")
	}
	if claims.Role != model.RoleBuyer && claims.Role != model.RoleVendor {
		return service.Actor{}, fmt.Errorf("unknown role %q", claims.Role)
	}

	return service.Actor{UserID: uint(id), Role: claims.Role}, nil
}

// AuthMiddleware resolves the bearer token into an actor. Requests without
// a token continue anonymously; the services decide what needs a login.
func AuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return apperr.ErrUnauthenticated
			}
			actor, err := ParseToken(secret, strings.TrimSpace(tokenStr))
			if err != nil {
				return apperr.ErrUnauthenticated
			}

			c.Set(actorKey, actor)
			return next(c)
		}
	}
}

// Actor returns the authenticated actor, or the zero Actor for anonymous
// requests.
func Actor(c echo.Context) service.Actor {
	actor, _ := c.Get(actorKey).(service.Actor)
	return actor
}
