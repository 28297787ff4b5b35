package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cliniiq/hospital-api/internal/application"
	"github.com/cliniiq/hospital-api/internal/domain/entity"
	"github.com/cliniiq/hospital-api/internal/interface/middleware"
	"github.com/cliniiq/hospital-api/pkg/response"
	"github.com/cliniiq/hospital-api/pkg/validation"
)

type AppointmentHandler struct {
	Svc    *application.AppointmentService
	Logger *logrus.Logger
}

func NewAppointmentHandler(svc *application.AppointmentService, logger *logrus.Logger) *AppointmentHandler {
	return &AppointmentHandler{Svc: svc, Logger: logger}
}

type bookRequest struct {
	FirstName       string `json:"firstName" binding:"required"`
	LastName        string `json:"lastName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	DOB             string `json:"dob" binding:"required"`
	Gender          string `json:"gender" binding:"required,gender"`
	AppointmentDate string `json:"appointment_date" binding:"required"`
	Department      string `json:"department" binding:"required"`
	DoctorFirstName string `json:"doctor_firstName" binding:"required"`
	DoctorLastName  string `json:"doctor_lastName" binding:"required"`
	HasVisited      bool   `json:"hasVisited"`
	Address         string `json:"address" binding:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required,apptstatus"`
}

func appointmentView(a *entity.Appointment) gin.H {
	return gin.H{
		"id":               a.ID,
		"firstName":        a.FirstName,
		"lastName":         a.LastName,
		"email":            a.Email,
		"phone":            a.Phone,
		"dob":              a.DOB,
		"gender":           a.Gender,
		"appointment_date": a.AppointmentDate,
		"department":       a.Department,
		"doctor": gin.H{
			"firstName": a.DoctorFirstName,
			"lastName":  a.DoctorLastName,
		},
		"hasVisited": a.HasVisited,
		"address":    a.Address,
		"doctorId":   a.DoctorID,
		"patientId":  a.PatientID,
		"status":     a.Status,
	}
}

// Book POST /appointment/post (patient)
func (h *AppointmentHandler) Book(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "Please Fill Full Form!", validation.ToDetails(err))
		return
	}
	patientID := c.GetString(middleware.CtxUserIDKey)

	a, err := h.Svc.Book(c.Request.Context(), patientID, application.BookInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		DOB:             req.DOB,
		Gender:          entity.Gender(req.Gender),
		AppointmentDate: req.AppointmentDate,
		Department:      req.Department,
		DoctorFirstName: req.DoctorFirstName,
		DoctorLastName:  req.DoctorLastName,
		HasVisited:      req.HasVisited,
		Address:         req.Address,
	})
	if err != nil {
		if errors.Is(err, application.ErrDoctorNotFound) {
			response.Error[any](c, http.StatusNotFound, "Doctor not found!", nil)
			return
		}
		h.Logger.WithError(err).Error("appointment booking failed")
		response.Error[any](c, http.StatusInternalServerError, "could not create appointment", nil)
		return
	}
	response.Success(c, http.StatusCreated, appointmentView(a), "Appointment Sent Successfully!", nil)
}

// GetAll GET /appointment/getall (admin)
func (h *AppointmentHandler) GetAll(c *gin.Context) {
	appts, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("appointment listing failed")
		response.Error[any](c, http.StatusInternalServerError, "could not list appointments", nil)
		return
	}
	views := make([]gin.H, 0, len(appts))
	for _, a := range appts {
		views = append(views, appointmentView(a))
	}
	response.Success(c, http.StatusOK, gin.H{"appointments": views}, "appointments", nil)
}

// UpdateStatus PUT /appointment/update/:id (admin)
func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid status", validation.ToDetails(err))
		return
	}

	a, changed, err := h.Svc.UpdateStatus(c.Request.Context(), id, entity.AppointmentStatus(req.Status))
	if err != nil {
		if errors.Is(err, application.ErrAppointmentNotFound) {
			response.Error[any](c, http.StatusNotFound, "Appointment not found!", nil)
			return
		}
		h.Logger.WithError(err).Error("appointment status update failed")
		response.Error[any](c, http.StatusInternalServerError, "could not update appointment", nil)
		return
	}
	if !changed {
		response.Success(c, http.StatusOK, appointmentView(a), "Appointment status already updated!", nil)
		return
	}
	response.Success(c, http.StatusOK, appointmentView(a), fmt.Sprintf("Appointment %s successfully!", a.Status), nil)
}

// Delete DELETE /appointment/delete/:id (admin)
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, application.ErrAppointmentNotFound) {
			response.Error[any](c, http.StatusNotFound, "Appointment Not Found!", nil)
			return
		}
		h.Logger.WithError(err).Error("appointment delete failed")
		response.Error[any](c, http.StatusInternalServerError, "could not delete appointment", nil)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "Appointment Deleted Successfully!", nil)
}
