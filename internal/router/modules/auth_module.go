package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/kopidesk/identity-service/internal/interface/http"
)

// AuthModule wires the public credential routes.
// POST /api/auth/signup, /api/auth/login, /api/auth/refresh, /api/auth/verify
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/signup", m.Handler.Signup)
	rg.POST("/auth/login", m.Handler.Login)
	rg.POST("/auth/refresh", m.Handler.Refresh)
	rg.POST("/auth/verify", m.Handler.Verify)
}
