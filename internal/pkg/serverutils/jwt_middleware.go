package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const scopeLocalsKey = "scope_claims"

// ScopeClaims is what a valid bearer credential says about the caller.
type ScopeClaims struct {
	UserId   uuid.UUID
	TenantId uuid.UUID
	Name     string
}

// ScopeMiddleware resolves an optional HS256 bearer into ScopeClaims.
// A missing or invalid token is not rejected: the request continues
// without claims and the caller acts as an unknown user.
func ScopeMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") || secret == "" {
			return ctx.Next()
		}
		tokenStr := strings.TrimSpace(authHeader[7:])

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return ctx.Next()
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Next()
		}

		userId, err := uuid.Parse(stringClaim(claims, "user_id"))
		if err != nil {
			return ctx.Next()
		}
		scope := &ScopeClaims{UserId: userId, Name: stringClaim(claims, "name")}
		if tenantId, err := uuid.Parse(stringClaim(claims, "tenant_id")); err == nil {
			scope.TenantId = tenantId
		}

		ctx.Locals(scopeLocalsKey, scope)
		return ctx.Next()
	}
}

// ScopeFrom returns the claims set by ScopeMiddleware, or nil.
func ScopeFrom(ctx *fiber.Ctx) *ScopeClaims {
	scope, _ := ctx.Locals(scopeLocalsKey).(*ScopeClaims)
	return scope
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
