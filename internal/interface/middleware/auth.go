package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kopidesk/identity-service/internal/application"
	"github.com/kopidesk/identity-service/internal/domain/entity"
	"github.com/kopidesk/identity-service/pkg/helpers"
	"github.com/kopidesk/identity-service/pkg/response"
)

const CtxCallerKey = "caller"

// Auth validates the bearer access token and resolves the caller identity.
// Refresh tokens are rejected here regardless of validity. On success the
// caller entity is stored in the Gin context.
func Auth(svc *application.Service, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abort(c, http.StatusUnauthorized, "missing access token")
			return
		}
		claims, err := jwt.Parse(token)
		if err != nil {
			if errors.Is(err, helpers.ErrExpiredToken) {
				abort(c, http.StatusUnauthorized, "token expired")
				return
			}
			abort(c, http.StatusUnauthorized, "invalid access token")
			return
		}
		if !claims.IsAccess() {
			abort(c, http.StatusUnauthorized, "invalid access token")
			return
		}

		caller, err := svc.ResolveSubject(c.Request.Context(), claims.Subject)
		if err != nil {
			abort(c, http.StatusUnauthorized, "invalid access token")
			return
		}

		c.Set(CtxCallerKey, caller)
		c.Set("userID", caller.ID)
		c.Set("userEmail", caller.Email)
		c.Next()
	}
}

// CallerFrom returns the authenticated caller stored by Auth.
func CallerFrom(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(CtxCallerKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*entity.User)
	return u, ok
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abort(c *gin.Context, status int, msg string) {
	resp := response.Error[any](c, status, msg, nil)
	c.AbortWithStatusJSON(resp.Status, resp)
}
