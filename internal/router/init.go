package router

import (
	"github.com/kopidesk/identity-service/internal/application"
	"github.com/kopidesk/identity-service/internal/container"
	pginfra "github.com/kopidesk/identity-service/internal/infrastructure/postgres"
	handlers "github.com/kopidesk/identity-service/internal/interface/http"
	"github.com/kopidesk/identity-service/internal/router/modules"
)

// InitModules initializes all application modules and registers them with
// the router registry. Called once during startup.
func InitModules(r *Registry) {
	repo := pginfra.NewUserRepository(container.GetPGPool())

	svc := application.NewService(
		repo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		container.GetRabbitPub(),
		container.GetConfig().MailSendEnabled,
	)

	authHandler := handlers.NewAuthHandler(svc, container.GetLogger())
	userHandler := handlers.NewUserHandler(svc, container.GetLogger())

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewUserModule(userHandler, svc, container.GetJWT()))
}
