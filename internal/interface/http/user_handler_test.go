package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cliniiq/hospital-api/internal/application"
	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/internal/interface/middleware"
	"github.com/cliniiq/hospital-api/pkg/helpers"
)

type envelope struct {
	Status  int            `json:"status"`
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func newUserRouter(t *testing.T, repo *memUserRepo) *gin.Engine {
	testSetup(t)
	jwt := testJWT()
	svc := &application.UserService{Repo: repo, JWT: jwt, Logger: logrus.New()}
	h := NewUserHandler(svc, logrus.New(), testCookies())

	r := gin.New()
	r.POST("/user/patient/register", h.RegisterPatient)
	r.POST("/user/login", h.Login)
	r.POST("/user/admin/addnew", h.AddAdmin)
	r.POST("/user/doctor/addnew", h.AddDoctor)
	r.GET("/user/doctors", h.ListDoctors)
	r.GET("/user/patient/me", middleware.RequireRole(entity.RolePatient, jwt, repo), h.Me)
	r.GET("/user/patient/logout", h.LogoutPatient)
	return r
}

func registerBody() map[string]any {
	return map[string]any{
		"firstName": "Rina",
		"lastName":  "Putri",
		"email":     "rina@example.com",
		"phone":     "08123456789",
		"dob":       "1994-03-12",
		"gender":    "Female",
		"password":  "supersecret",
	}
}

func postJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func putJSON(r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterPatientHandler(t *testing.T) {
	repo := newMemUserRepo()
	r := newUserRouter(t, repo)

	w := postJSON(r, "/user/patient/register", registerBody())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	e := decodeEnvelope(t, w)
	assert.True(t, e.Success)
	assert.Equal(t, "User Registered Successfully!", e.Message)
	assert.Equal(t, "rina@example.com", e.Data["email"])
	assert.NotContains(t, e.Data, "password", "hash must not be exposed")

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, helpers.PatientCookie, cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestRegisterPatientHandlerValidation(t *testing.T) {
	r := newUserRouter(t, newMemUserRepo())

	body := registerBody()
	delete(body, "email")
	body["password"] = "short"

	w := postJSON(r, "/user/patient/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	e := decodeEnvelope(t, w)
	assert.False(t, e.Success)
	assert.Equal(t, "Please Fill Full Form!", e.Message)
}

func TestRegisterPatientHandlerDuplicate(t *testing.T) {
	r := newUserRouter(t, newMemUserRepo())

	w := postJSON(r, "/user/patient/register", registerBody())
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(r, "/user/patient/register", registerBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already Registered!", decodeEnvelope(t, w).Message)
}

func TestLoginHandler(t *testing.T) {
	repo := newMemUserRepo()
	r := newUserRouter(t, repo)
	require.Equal(t, http.StatusOK, postJSON(r, "/user/patient/register", registerBody()).Code)

	login := func(email, password, role string) *httptest.ResponseRecorder {
		return postJSON(r, "/user/login", map[string]any{
			"email": email, "password": password, "role": role,
		})
	}

	t.Run("ok", func(t *testing.T) {
		w := login("rina@example.com", "supersecret", "Patient")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "Login Successfully!", decodeEnvelope(t, w).Message)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := login("rina@example.com", "wrongwrong", "Patient")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid Email Or Password!", decodeEnvelope(t, w).Message)
	})

	t.Run("wrong role", func(t *testing.T) {
		w := login("rina@example.com", "supersecret", "Admin")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "User Not Found With This Role!", decodeEnvelope(t, w).Message)
	})

	t.Run("role outside the closed set", func(t *testing.T) {
		w := login("rina@example.com", "supersecret", "Root")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Please Fill Full Form!", decodeEnvelope(t, w).Message)
	})
}

func TestPatientSessionFlow(t *testing.T) {
	repo := newMemUserRepo()
	r := newUserRouter(t, repo)

	w := postJSON(r, "/user/patient/register", registerBody())
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/user/patient/me", nil)
	req.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	require.Equal(t, http.StatusOK, w2.Code, w2.Body.String())
	assert.Equal(t, "rina@example.com", decodeEnvelope(t, w2).Data["email"])

	// Logout serves an expired cookie for the same name.
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, httptest.NewRequest(http.MethodGet, "/user/patient/logout", nil))
	require.Equal(t, http.StatusOK, w3.Code)
	assert.Equal(t, "Patient Logged Out Successfully.", decodeEnvelope(t, w3).Message)
	out := w3.Result().Cookies()
	require.Len(t, out, 1)
	assert.Equal(t, helpers.PatientCookie, out[0].Name)
	assert.Empty(t, out[0].Value)
	assert.Negative(t, out[0].MaxAge)
}

func TestAddAdminHandlerDuplicate(t *testing.T) {
	r := newUserRouter(t, newMemUserRepo())

	w := postJSON(r, "/user/admin/addnew", registerBody())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "New Admin Registered", decodeEnvelope(t, w).Message)

	w = postJSON(r, "/user/admin/addnew", registerBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Admin With This Email Already Exists!", decodeEnvelope(t, w).Message)
}

func doctorForm(t *testing.T, avatar bool, contentType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"firstName":        "Siti",
		"lastName":         "Aminah",
		"email":            "siti@example.com",
		"phone":            "08987654321",
		"dob":              "1985-01-30",
		"gender":           "Female",
		"password":         "supersecret",
		"doctorDepartment": "Cardiology",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if avatar {
		h := make(map[string][]string)
		h["Content-Disposition"] = []string{`form-data; name="docAvatar"; filename="avatar.bin"`}
		h["Content-Type"] = []string{contentType}
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAddDoctorHandlerAvatarRequired(t *testing.T) {
	r := newUserRouter(t, newMemUserRepo())

	body, ct := doctorForm(t, false, "")
	req := httptest.NewRequest(http.MethodPost, "/user/doctor/addnew", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Doctor Avatar Required!", decodeEnvelope(t, w).Message)
}

func TestAddDoctorHandlerBadFormat(t *testing.T) {
	r := newUserRouter(t, newMemUserRepo())

	body, ct := doctorForm(t, true, "application/pdf")
	req := httptest.NewRequest(http.MethodPost, "/user/doctor/addnew", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File Format Not Supported!", decodeEnvelope(t, w).Message)
}

func TestAddDoctorHandlerMissingFields(t *testing.T) {
	r := newUserRouter(t, newMemUserRepo())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("firstName", "Siti"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/user/doctor/addnew", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please Fill Full Form!", decodeEnvelope(t, w).Message)
}

func TestListDoctorsHandler(t *testing.T) {
	repo := newMemUserRepo()
	require.NoError(t, repo.Create(&entity.User{Email: "p@example.com", Role: entity.RolePatient}))
	require.NoError(t, repo.Create(&entity.User{
		FirstName: "Siti", LastName: "Aminah", Email: "siti@example.com",
		Role: entity.RoleDoctor, Department: "Cardiology",
	}))
	r := newUserRouter(t, repo)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/user/doctors", nil))
	require.Equal(t, http.StatusOK, w.Code)

	e := decodeEnvelope(t, w)
	assert.EqualValues(t, 1, e.Data["totalDoctors"])
	doctors, ok := e.Data["doctors"].([]any)
	require.True(t, ok)
	require.Len(t, doctors, 1)
	d := doctors[0].(map[string]any)
	assert.Equal(t, "Cardiology", d["doctorDepartment"])
	assert.True(t, strings.Contains(w.Body.String(), "docAvatar"))
}
