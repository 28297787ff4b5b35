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

// MessageModule wires the public contact form and the admin inbox.
type MessageModule struct {
	Handler *handlers.MessageHandler
	JWT     *helpers.JWTManager
	Users   repository.UserRepository
	Redis   *redis.Client
}

func NewMessageModule(h *handlers.MessageHandler, jwt *helpers.JWTManager, users repository.UserRepository, rdb *redis.Client) *MessageModule {
	return &MessageModule{Handler: h, JWT: jwt, Users: users, Redis: rdb}
}

func (m *MessageModule) Register(rg *gin.RouterGroup) {
	sendLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.POST("/message/send", sendLimiter, m.Handler.Send)

	admin := rg.Group("/message")
	admin.Use(middleware.RequireRole(entity.RoleAdmin, m.JWT, m.Users))
	{
		admin.GET("/getall", m.Handler.GetAll)
	}
}
