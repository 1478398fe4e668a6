package app

import (
	"fmt"
	"net/http"
	"recoverable/internal/app/deps"
	"recoverable/internal/app/services"
	recoverpassword "recoverable/internal/http/handlers/recovery/recover_password"
	requestrecover "recoverable/internal/http/handlers/recovery/request_recover"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

func InitHttpServer(deps *deps.Deps, s *services.Services) *http.Server {
	return &http.Server{
		Handler: NewRouter(s, deps.Config.CorsAllowedOrigins, deps.Config.IsTestMode),
		Addr:    fmt.Sprintf("0.0.0.0:%d", deps.Config.Port),
	}
}

func NewRouter(s *services.Services, allowedOrigins []string, isTestMode bool) http.Handler {
	authRouter := chi.NewRouter()
	authRouter.Method(http.MethodPost, "/recovery", requestrecover.New(s.RequestRecover, isTestMode))
	authRouter.Method(http.MethodPut, "/recovery", recoverpassword.New(s.RecoverPassword))

	exposedHeaders := []string{}
	if isTestMode {
		exposedHeaders = append(exposedHeaders, requestrecover.TEST_TOKEN_HEADER)
	}

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	router.Mount("/auth", authRouter)
	return router
}
