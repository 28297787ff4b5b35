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

// AppointmentModule wires booking (patient) and triage (admin) routes.
type AppointmentModule struct {
	Handler *handlers.AppointmentHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
	Redis   *redis.Client
}

func NewAppointmentModule(h *handlers.AppointmentHandler, jwt *helpers.JWTManager, users repository.UserRepository, rdb *redis.Client) *AppointmentModule {
	return &AppointmentModule{Handler: h, JWT: jwt, Users: users, Redis: rdb}
}

func (m *AppointmentModule) Register(rg *gin.RouterGroup) {
	patient := rg.Group("/appointment")
	patient.Use(middleware.RequireRole(entity.RolePatient, m.JWT, m.Users))
	patient.Use(middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByUserID(), nil))
	{
		patient.POST("/post", m.Handler.Book)
	}

	admin := rg.Group("/appointment")
	admin.Use(middleware.RequireRole(entity.RoleAdmin, m.JWT, m.Users))
	{
		admin.GET("/getall", m.Handler.GetAll)
		admin.PUT("/update/:id", m.Handler.UpdateStatus)
		admin.DELETE("/delete/:id", m.Handler.Delete)
	}
}
