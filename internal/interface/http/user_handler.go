package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cliniiq/hospital-api/internal/application"
	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/internal/interface/middleware"
	"github.com/cliniiq/hospital-api/pkg/helpers"
	"github.com/cliniiq/hospital-api/pkg/response"
	"github.com/cliniiq/hospital-api/pkg/validation"
)

type UserHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger, cookies *helpers.Manager) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger, Cookies: cookies}
}

// registerRequest keeps the original API's camelCase field names.
type registerRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	DOB       string `json:"dob" binding:"required"`
	Gender    string `json:"gender" binding:"required,gender"`
	Password  string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,role"`
}

func (r registerRequest) input() application.RegisterInput {
	return application.RegisterInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		DOB:       r.DOB,
		Gender:    entity.Gender(r.Gender),
		Password:  r.Password,
	}
}

// userView is the safe public shape of a user; the password hash never
// leaves the service.
func userView(u *entity.User) gin.H {
	v := gin.H{
		"id":        u.ID,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"email":     u.Email,
		"phone":     u.Phone,
		"dob":       u.DOB,
		"gender":    u.Gender,
		"role":      u.Role,
	}
	if u.Role == entity.RoleDoctor {
		v["doctorDepartment"] = u.Department
		v["docAvatar"] = gin.H{"public_id": u.AvatarObjectID, "url": u.AvatarURL}
	}
	return v
}

// RegisterPatient POST /user/patient/register
func (h *UserHandler) RegisterPatient(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "Please Fill Full Form!", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.RegisterPatient(c.Request.Context(), req.input())
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusBadRequest, "User already Registered!", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	h.issueSession(c, u, "User Registered Successfully!")
}

// Login POST /user/login
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "Please Fill Full Form!", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password, entity.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, application.ErrRoleMismatch):
			response.Error[any](c, http.StatusBadRequest, "User Not Found With This Role!", nil)
		default:
			response.Error[any](c, http.StatusBadRequest, "Invalid Email Or Password!", nil)
		}
		return
	}
	h.issueSession(c, u, "Login Successfully!")
}

func (h *UserHandler) issueSession(c *gin.Context, u *entity.User, message string) {
	token, exp, err := h.Svc.IssueToken(u)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "could not create session", nil)
		return
	}
	h.Cookies.SetSession(c, u.Role, token, exp)
	response.Success(c, http.StatusOK, userView(u), message, nil)
}

// AddAdmin POST /user/admin/addnew (admin)
func (h *UserHandler) AddAdmin(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "Please Fill Full Form!", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.RegisterAdmin(c.Request.Context(), req.input())
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusBadRequest, "Admin With This Email Already Exists!", nil)
			return
		}
		response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "New Admin Registered", nil)
}

// AddDoctor POST /user/doctor/addnew (admin, multipart)
func (h *UserHandler) AddDoctor(c *gin.Context) {
	in := application.RegisterInput{
		FirstName: c.PostForm("firstName"),
		LastName:  c.PostForm("lastName"),
		Email:     c.PostForm("email"),
		Phone:     c.PostForm("phone"),
		DOB:       c.PostForm("dob"),
		Gender:    entity.Gender(c.PostForm("gender")),
		Password:  c.PostForm("password"),
	}
	department := c.PostForm("doctorDepartment")
	if in.FirstName == "" || in.LastName == "" || in.Email == "" || in.Phone == "" ||
		in.DOB == "" || in.Gender == "" || in.Password == "" || department == "" {
		response.Error[any](c, http.StatusBadRequest, "Please Fill Full Form!", nil)
		return
	}
	if !in.Gender.Valid() {
		response.Error[any](c, http.StatusBadRequest, "Please Fill Full Form!", gin.H{"gender": "must be Male or Female"})
		return
	}

	var avatar *application.AvatarUpload
	fh, err := c.FormFile("docAvatar")
	if err == nil && fh != nil {
		f, openErr := fh.Open()
		if openErr != nil {
			response.Error[any](c, http.StatusBadRequest, "Doctor Avatar Required!", nil)
			return
		}
		defer func() { _ = f.Close() }()
		avatar = &application.AvatarUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		}
	}

	u, err := h.Svc.RegisterDoctor(c.Request.Context(), in, department, avatar)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrAvatarRequired):
			response.Error[any](c, http.StatusBadRequest, "Doctor Avatar Required!", nil)
		case errors.Is(err, application.ErrAvatarFormat):
			response.Error[any](c, http.StatusBadRequest, "File Format Not Supported!", nil)
		case errors.Is(err, application.ErrEmailTaken):
			response.Error[any](c, http.StatusBadRequest, "Doctor With This Email Already Exists!", nil)
		default:
			h.Logger.WithError(err).Error("doctor registration failed")
			response.Error[any](c, http.StatusInternalServerError, "registration failed", nil)
		}
		return
	}
	response.Success(c, http.StatusOK, userView(u), "New Doctor Registered", nil)
}

// ListDoctors GET /user/doctors
func (h *UserHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.Svc.ListDoctors(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("doctor listing failed")
		response.Error[any](c, http.StatusInternalServerError, "could not list doctors", nil)
		return
	}
	views := make([]gin.H, 0, len(doctors))
	for _, d := range doctors {
		views = append(views, userView(d))
	}
	response.Success(c, http.StatusOK, gin.H{"doctors": views, "totalDoctors": len(views)}, "doctors", nil)
}

// SearchDoctors GET /user/doctors/search?q=...&size=...
func (h *UserHandler) SearchDoctors(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchDoctors(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("doctor search failed")
		response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"doctors": hits}, "doctors", nil)
}

// Me GET /user/admin/me and /user/patient/me
func (h *UserHandler) Me(c *gin.Context) {
	u, ok := middleware.UserFromCtx(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "user not authenticated", nil)
		return
	}
	response.Success(c, http.StatusOK, userView(u), "user details", nil)
}

// LogoutAdmin GET /user/admin/logout
func (h *UserHandler) LogoutAdmin(c *gin.Context) {
	h.Cookies.ClearSession(c, entity.RoleAdmin)
	response.Success[any](c, http.StatusOK, nil, "Admin Logged Out Successfully.", nil)
}

// LogoutPatient GET /user/patient/logout
func (h *UserHandler) LogoutPatient(c *gin.Context) {
	h.Cookies.ClearSession(c, entity.RolePatient)
	response.Success[any](c, http.StatusOK, nil, "Patient Logged Out Successfully.", nil)
}
