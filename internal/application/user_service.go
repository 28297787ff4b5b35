package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
	repo "github.com/cliniiq/hospital-api/internal/domain/repository"
	"github.com/cliniiq/hospital-api/pkg/helpers"
	"github.com/cliniiq/hospital-api/pkg/mailer"
	tpl "github.com/cliniiq/hospital-api/pkg/mailer/templates"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRoleMismatch       = errors.New("user not found with this role")
	ErrUserNotFound       = errors.New("user not found")
	ErrAvatarRequired     = errors.New("doctor avatar required")
	ErrAvatarFormat       = errors.New("file format not supported")
)

// allowedAvatarTypes is the MIME allow-list for doctor avatars.
var allowedAvatarTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// Publisher hands notification jobs to the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

const doctorsCacheKey = "doctors:all"

// UserService covers registration, login, doctor onboarding and listing.
type UserService struct {
	Repo           repo.UserRepository
	JWT            *helpers.JWTManager
	GCS            *storage.Client
	GCSBucket      string
	Redis          *redis.Client
	Logger         *logrus.Logger
	ES             *elasticsearch.Client
	ESDoctorsIndex string
	Pub            Publisher
	HospitalName   string
	MailEnabled    bool
}

// RegisterInput carries the fields shared by patient, admin and doctor
// registration.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	DOB       string
	Gender    entity.Gender
	Password  string
}

// AvatarUpload is the uploaded doctor avatar file.
type AvatarUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

func (s *UserService) create(in RegisterInput, role entity.Role) (*entity.User, error) {
	if existing, _ := s.Repo.GetByEmail(in.Email); existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		DOB:       in.DOB,
		Gender:    in.Gender,
		Password:  hash,
		Role:      role,
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, err
	}
	return u, nil
}

// RegisterPatient creates a patient account and enqueues the welcome email.
// A publish failure never fails the registration.
func (s *UserService) RegisterPatient(ctx context.Context, in RegisterInput) (*entity.User, error) {
	u, err := s.create(in, entity.RolePatient)
	if err != nil {
		return nil, err
	}
	s.enqueueWelcome(ctx, u)
	return u, nil
}

// RegisterAdmin creates an admin account. Admin-only, enforced at the route.
func (s *UserService) RegisterAdmin(ctx context.Context, in RegisterInput) (*entity.User, error) {
	return s.create(in, entity.RoleAdmin)
}

// RegisterDoctor creates a doctor with a department and a stored avatar.
// The avatar is mandatory and must pass the MIME allow-list before anything
// is persisted.
func (s *UserService) RegisterDoctor(ctx context.Context, in RegisterInput, department string, avatar *AvatarUpload) (*entity.User, error) {
	if avatar == nil || avatar.Reader == nil {
		return nil, ErrAvatarRequired
	}
	if !allowedAvatarTypes[avatar.ContentType] {
		return nil, ErrAvatarFormat
	}
	if existing, _ := s.Repo.GetByEmail(in.Email); existing != nil {
		return nil, ErrEmailTaken
	}

	objectID, url, err := s.uploadAvatar(ctx, avatar)
	if err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		DOB:            in.DOB,
		Gender:         in.Gender,
		Password:       hash,
		Role:           entity.RoleDoctor,
		Department:     department,
		AvatarObjectID: objectID,
		AvatarURL:      url,
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, err
	}

	s.invalidateDoctorCache(ctx)
	_ = s.indexDoctor(ctx, u)
	return u, nil
}

// Login validates credentials and then the requested role. Password is
// checked before the role on purpose: the original API reports a role
// mismatch distinctly, and only after the password matched.
func (s *UserService) Login(ctx context.Context, email, password string, role entity.Role) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(email)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CheckPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	if u.Role != role {
		return nil, ErrRoleMismatch
	}
	return u, nil
}

// IssueToken generates the role-scoped session token for u.
func (s *UserService) IssueToken(u *entity.User) (string, time.Time, error) {
	token, exp, err := s.JWT.Generate(u.ID, u.Role)
	if err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
	}
	return token, exp, err
}

// GetProfile returns the user for the authenticated identity.
func (s *UserService) GetProfile(userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// ListDoctors returns every doctor, read through the redis cache when one is
// configured.
func (s *UserService) ListDoctors(ctx context.Context) ([]*entity.User, error) {
	if s.Redis != nil {
		var cached []*entity.User
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, doctorsCacheKey, &cached); err == nil && ok {
			return cached, nil
		}
	}
	doctors, err := s.Repo.ListDoctors()
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, doctorsCacheKey, doctors, 5*time.Minute); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("doctor cache write failed")
		}
	}
	return doctors, nil
}

func (s *UserService) invalidateDoctorCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, doctorsCacheKey); err != nil && s.Logger != nil {
		s.Logger.WithError(err).Warn("doctor cache invalidation failed")
	}
}

func (s *UserService) uploadAvatar(ctx context.Context, avatar *AvatarUpload) (objectID, url string, err error) {
	if s.GCS == nil || s.GCSBucket == "" {
		return "", "", errors.New("avatar storage not configured")
	}
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(avatar.Filename))
	objectPath := filepath.ToSlash(filepath.Join("avatars", id+ext))
	url, err = helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, avatar.ContentType, avatar.Reader)
	if err != nil {
		return "", "", err
	}
	return objectPath, url, nil
}

func (s *UserService) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Pub == nil || !s.MailEnabled {
		return
	}
	data := tpl.EmailData{Name: u.FullName(), HospitalName: s.HospitalName}
	job := mailer.EmailJob{To: u.Email, Template: tpl.Welcome, Data: toMap(data)}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("email", u.Email).Warn("welcome email enqueue failed")
	}
}

func (s *UserService) indexDoctor(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESDoctorsIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
		"department": u.Department,
		"avatar_url": u.AvatarURL,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESDoctorsIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("doctor_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("doctor_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchDoctors performs a multi_match search over name and department.
func (s *UserService) SearchDoctors(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESDoctorsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"first_name^2", "last_name^2", "department"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(s.ESDoctorsIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// toMap converts EmailData to the map form carried by EmailJob.
func toMap(d tpl.EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}
