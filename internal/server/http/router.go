// Package http assembles the gin engine of the API server.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/publiceyeusa/publiceye/internal/common"
	"github.com/publiceyeusa/publiceye/internal/logging"
	httpH "github.com/publiceyeusa/publiceye/internal/server/http/handlers"
	httpMW "github.com/publiceyeusa/publiceye/internal/server/http/middleware"
)

type RouterConfig struct {
	Logger         logging.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	UserHandler        *httpH.UserHandler
	ProfileHandler     *httpH.ProfileHandler
	AffiliationHandler *httpH.AffiliationHandler
	HealthHandler      *httpH.HealthHandler

	// AdminRegisterPath registers staff accounts at users/<path>/ when set.
	AdminRegisterPath string
	AllowedOrigins    []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.RequestLogger(cfg.Logger))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(httpMW.CORS(cfg.AllowedOrigins))
	}

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group(common.APIPrefix)
	auth := cfg.AuthMiddleware.RequireAuth()

	users := api.Group("/users")
	{
		users.GET("/", auth, cfg.UserHandler.Info)
		users.POST("/register/", cfg.UserHandler.Register)
		users.POST("/login/", cfg.UserHandler.Login)
		users.POST("/logout/", auth, cfg.UserHandler.Logout)
		users.DELETE("/delete_user/", auth, cfg.UserHandler.DeleteUser)
		if cfg.AdminRegisterPath != "" {
			users.POST("/"+cfg.AdminRegisterPath+"/", cfg.UserHandler.RegisterAdmin)
		}
	}

	profile := api.Group("/profile", auth)
	{
		profile.GET("/", cfg.ProfileHandler.Get)
		profile.PUT("/edit_profile/", cfg.ProfileHandler.Edit)
		profile.GET("/display_name/", cfg.ProfileHandler.DisplayName)
	}

	affiliations := api.Group("/affiliations")
	{
		affiliations.GET("/", cfg.AffiliationHandler.List)
		affiliations.GET("/:category/", cfg.AffiliationHandler.Get)
		affiliations.POST("/:category/", auth, cfg.AuthMiddleware.RequireStaff(), cfg.AffiliationHandler.Create)
	}

	return r
}
