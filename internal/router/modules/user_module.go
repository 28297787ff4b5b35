package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/internal/domain/repository"
	handlers "github.com/cliniiq/hospital-api/internal/interface/http"
	"github.com/cliniiq/hospital-api/internal/interface/middleware"
	"github.com/cliniiq/hospital-api/pkg/helpers"
)

// UserModule wires registration, login, session and doctor-listing routes.
// Public: register, login, doctors, doctors/search
// Admin: addnew (admin/doctor), me, logout
// Patient: me, logout
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, users repository.UserRepository, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Users: users, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public with rate limiting on the credential endpoints
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/user/patient/register", registerLimiter, m.Handler.RegisterPatient)
	rg.POST("/user/login", loginLimiter, m.Handler.Login)
	rg.GET("/user/doctors", m.Handler.ListDoctors)
	rg.GET("/user/doctors/search", m.Handler.SearchDoctors)

	// Admin namespace
	admin := rg.Group("/user")
	admin.Use(middleware.RequireRole(entity.RoleAdmin, m.JWT, m.Users))
	{
		admin.POST("/admin/addnew", m.Handler.AddAdmin)
		admin.POST("/doctor/addnew", m.Handler.AddDoctor)
		admin.GET("/admin/me", m.Handler.Me)
		admin.GET("/admin/logout", m.Handler.LogoutAdmin)
	}

	// Patient namespace
	patient := rg.Group("/user")
	patient.Use(middleware.RequireRole(entity.RolePatient, m.JWT, m.Users))
	{
		patient.GET("/patient/me", m.Handler.Me)
		patient.GET("/patient/logout", m.Handler.LogoutPatient)
	}
}
