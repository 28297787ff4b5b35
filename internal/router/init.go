package router

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cliniiq/hospital-api/config"
	"github.com/cliniiq/hospital-api/internal/application"
	pginfra "github.com/cliniiq/hospital-api/internal/infrastructure/postgres"
	handlers "github.com/cliniiq/hospital-api/internal/interface/http"
	"github.com/cliniiq/hospital-api/internal/router/modules"
	"github.com/cliniiq/hospital-api/pkg/helpers"
)

// Deps carries every constructed infrastructure client. It is built once in
// main and passed down explicitly; nothing here lives in package globals.
type Deps struct {
	Cfg    *config.Config
	Logger *logrus.Logger
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	GCS    *storage.Client
	ES     *elasticsearch.Client
	JWT    *helpers.JWTManager
	Pub    *helpers.RabbitPublisher
}

// InitModules wires repositories, services and handlers from Deps and
// registers every feature module with the registry.
func InitModules(r *Registry, d Deps) {
	users := pginfra.NewUserRepository(d.Pool)
	appointments := pginfra.NewAppointmentRepository(d.Pool)
	messages := pginfra.NewMessageRepository(d.Pool)

	cookies := helpers.NewCookie(d.Cfg.CookieDomain, d.Cfg.Production())

	// RabbitPublisher may be nil when the broker is unreachable at boot;
	// services treat a nil publisher as mail disabled.
	var pub application.Publisher
	if d.Pub != nil {
		pub = d.Pub
	}

	userSvc := &application.UserService{
		Repo:           users,
		JWT:            d.JWT,
		GCS:            d.GCS,
		GCSBucket:      d.Cfg.GCSBucket,
		Redis:          d.Redis,
		Logger:         d.Logger,
		ES:             d.ES,
		ESDoctorsIndex: d.Cfg.ESDoctorsIndex,
		Pub:            pub,
		HospitalName:   d.Cfg.HospitalName,
		MailEnabled:    d.Cfg.MailSendEnabled,
	}
	apptSvc := &application.AppointmentService{
		Appointments: appointments,
		Users:        users,
		Pub:          pub,
		Logger:       d.Logger,
		HospitalName: d.Cfg.HospitalName,
		MailEnabled:  d.Cfg.MailSendEnabled,
	}
	msgSvc := &application.MessageService{Messages: messages, Logger: d.Logger}

	r.Add(modules.NewUserModule(handlers.NewUserHandler(userSvc, d.Logger, cookies), d.JWT, users, d.Redis))
	r.Add(modules.NewAppointmentModule(handlers.NewAppointmentHandler(apptSvc, d.Logger), d.JWT, users, d.Redis))
	r.Add(modules.NewMessageModule(handlers.NewMessageHandler(msgSvc, d.Logger), d.JWT, users, d.Redis))
	r.Add(modules.NewDebugModule(d.Redis))
}
