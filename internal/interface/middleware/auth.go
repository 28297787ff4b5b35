package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/internal/domain/repository"
	"github.com/cliniiq/hospital-api/pkg/helpers"
	"github.com/cliniiq/hospital-api/pkg/response"
)

// Context keys set on successful authentication.
const (
	CtxUserIDKey = "userID"
	CtxUserKey   = "user"
	CtxRoleKey   = "userRole"
)

// RequireRole reads the session cookie for the expected role's namespace,
// validates the token, loads the user and checks the role. Missing or
// invalid token is 401; a valid token whose user carries another role is 403.
func RequireRole(role entity.Role, jwt *helpers.JWTManager, users repository.UserRepository) gin.HandlerFunc {
	cookieName := helpers.CookieForRole(role)
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "user not authenticated", nil)
			c.Abort()
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid session token", nil)
			c.Abort()
			return
		}
		// The claim role was fixed at issuance; a mismatch means the token
		// was replayed against the wrong namespace.
		if claims.Role != role {
			response.Error[any](c, http.StatusForbidden, string(claims.Role)+" not authorized for this resource", nil)
			c.Abort()
			return
		}

		u, err := users.GetByID(claims.UserID)
		if err != nil || u == nil {
			response.Error[any](c, http.StatusUnauthorized, "user not authenticated", nil)
			c.Abort()
			return
		}
		if u.Role != role {
			response.Error[any](c, http.StatusForbidden, string(u.Role)+" not authorized for this resource", nil)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, u.ID)
		c.Set(CtxUserKey, u)
		c.Set(CtxRoleKey, string(u.Role))
		c.Next()
	}
}

// UserFromCtx returns the authenticated user injected by RequireRole.
func UserFromCtx(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}
