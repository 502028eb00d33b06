package handler

import (
	"bytes"
	"fmt"
	"net/http"

	"go-gin-calendar/internal/export"
	"go-gin-calendar/internal/model"
	"go-gin-calendar/internal/service"

	"github.com/gin-gonic/gin"
)

type ICSHandler struct {
	service service.EventService
}

func NewICSHandler(service service.EventService) *ICSHandler {
	return &ICSHandler{service: service}
}

func (h *ICSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/calendar.ics", h.Export)
}

// Export 匯出與 GET /api/events 相同區間條件的活動
func (h *ICSHandler) Export(c *gin.Context) {
	from, err := parseTimeParam(c, "from")
	if err != nil {
		handleError(c, err, "ExportICS")
		return
	}
	to, err := parseTimeParam(c, "to")
	if err != nil {
		handleError(c, err, "ExportICS")
		return
	}
	events, err := h.service.List(c, model.EventFilter{From: from, To: to})
	if err != nil {
		handleError(c, err, "ExportICS")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, events); err != nil {
		handleError(c, err, "ExportICS")
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Window(from, to)))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
