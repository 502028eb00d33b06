package handler

import (
	"net/http"
	"time"

	"go-gin-calendar/internal/model"
	"go-gin-calendar/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api")
	{
		router.GET("events", h.List)
		router.GET("events/:id", h.GetByEventID)
		router.POST("events", h.Create)
		router.PUT("events/:id", h.UpdateByEventID)
		router.DELETE("events/:id", h.DeleteByEventID)
	}
}

// CreateEventRequest 建立活動請求，title/start/end 由 service 驗證
type CreateEventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Start       model.Timestamp `json:"start"`
	End         model.Timestamp `json:"end"`
	Color       string          `json:"color"`
}

// UpdateEventRequest 更新活動請求，只套用有出現的欄位
type UpdateEventRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Start       *model.Timestamp `json:"start"`
	End         *model.Timestamp `json:"end"`
	Color       *string          `json:"color"`
}

func (h *EventHandler) List(c *gin.Context) {
	from, err := parseTimeParam(c, "from")
	if err != nil {
		handleError(c, err, "List")
		return
	}
	to, err := parseTimeParam(c, "to")
	if err != nil {
		handleError(c, err, "List")
		return
	}
	events, err := h.service.List(c, model.EventFilter{From: from, To: to})
	if err != nil {
		handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetByEventID(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	event, err := h.service.GetByEventID(c, eventID)
	if err != nil {
		handleError(c, err, "GetByEventID")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Start:       req.Start.Time,
		End:         req.End.Time,
		Color:       req.Color,
	}
	created, err := h.service.Create(c, event)
	if err != nil {
		handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) UpdateByEventID(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	params := model.UpdateEventParams{
		Title:       req.Title,
		Description: req.Description,
		Start:       timeOrNil(req.Start),
		End:         timeOrNil(req.End),
		Color:       req.Color,
	}
	updated, err := h.service.UpdateByEventID(c, eventID, params)
	if err != nil {
		handleError(c, err, "UpdateByEventID")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) DeleteByEventID(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteByEventID(c, eventID); err != nil {
		handleError(c, err, "DeleteByEventID")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

func timeOrNil(ts *model.Timestamp) *time.Time {
	if ts == nil {
		return nil
	}
	return &ts.Time
}
