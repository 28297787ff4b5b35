package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cliniiq/hospital-api/internal/domain/entity"
)

// Cookie names, one per role namespace. An admin and a patient session can
// coexist in the same browser.
const (
	AdminCookie   = "adminToken"
	PatientCookie = "patientToken"
)

// CookieForRole maps a role onto its session cookie name. Doctors do not
// hold sessions of their own.
func CookieForRole(role entity.Role) string {
	if role == entity.RoleAdmin {
		return AdminCookie
	}
	return PatientCookie
}

// Manager writes role-scoped session cookies. Production gets
// Secure + SameSite=None so the cross-site dashboard can send credentials;
// everything else stays on Lax without Secure.
type Manager struct {
	Domain     string
	Production bool
}

func NewCookie(domain string, production bool) *Manager {
	return &Manager{Domain: domain, Production: production}
}

func (m *Manager) sameSite() http.SameSite {
	if m.Production {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}

// SetSession stores the token in the cookie belonging to the role namespace.
func (m *Manager) SetSession(c *gin.Context, role entity.Role, token string, exp time.Time) {
	c.SetSameSite(m.sameSite())
	c.SetCookie(CookieForRole(role), token, maxAgeFrom(exp), "/", m.Domain, m.Production, true)
}

// ClearSession expires the role's cookie immediately.
func (m *Manager) ClearSession(c *gin.Context, role entity.Role) {
	c.SetSameSite(m.sameSite())
	c.SetCookie(CookieForRole(role), "", -1, "/", m.Domain, m.Production, true)
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
