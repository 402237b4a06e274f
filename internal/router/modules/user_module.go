package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/kopidesk/identity-service/internal/application"
	handlers "github.com/kopidesk/identity-service/internal/interface/http"
	"github.com/kopidesk/identity-service/internal/interface/middleware"
	"github.com/kopidesk/identity-service/pkg/helpers"
)

// UserModule wires the bearer-token protected user-management routes.
// GET /api/me; GET /api/users; GET/PATCH/DELETE /api/users/:id
// Admin-only decisions live in the application layer, not here.
type UserModule struct {
	Handler *handlers.UserHandler
	Svc     *application.Service
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, svc *application.Service, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Svc: svc, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Svc, m.JWT))
	{
		auth.GET("/me", m.Handler.Me)
		auth.GET("/users", m.Handler.List)
		auth.GET("/users/:id", m.Handler.Get)
		auth.PATCH("/users/:id", m.Handler.Update)
		auth.DELETE("/users/:id", m.Handler.Delete)
	}
}
