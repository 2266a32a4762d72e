package controllers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/blogem/intern-timetracker/export"
	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/services"
	"github.com/blogem/intern-timetracker/userctx"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminController serves the admin review
type AdminController struct {
	services *services.Services
	responder
}

// NewAdminController creates a new admin controller
func NewAdminController(services *services.Services, r responder) *AdminController {
	return &AdminController{services: services, responder: r}
}

// Index handles GET /admin
func (c *AdminController) Index(w http.ResponseWriter, r *http.Request) {
	overview, err := c.services.Admin.GetOverview(r.Context())
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.json(w, http.StatusOK, map[string]interface{}{
		"admin":    userctx.GetAdmin(r.Context()),
		"overview": overview,
	})
}

// Export handles GET /admin/export.xlsx
func (c *AdminController) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := c.services.Admin.ExportWorkbook(r.Context(), &buf); err != nil {
		c.fail(w, r, err)
		return
	}

	filename := export.FilenamePrefix(models.UserInfo{FirstName: "Admin", LastName: "Export"}, timeNow()) + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// Audit handles GET /admin/audit?limit=
func (c *AdminController) Audit(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := c.services.Admin.GetRecentAudit(r.Context(), limit)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	c.json(w, http.StatusOK, map[string]interface{}{"entries": entries})
}
