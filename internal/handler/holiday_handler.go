package handler

import (
	"net/http"
	"strconv"
	"strings"

	"go-gin-calendar/internal/holiday"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type HolidayHandler struct {
	lookup         holiday.Service
	defaultCountry string
	validate       *validator.Validate
}

func NewHolidayHandler(lookup holiday.Service, defaultCountry string) *HolidayHandler {
	return &HolidayHandler{
		lookup:         lookup,
		defaultCountry: strings.ToUpper(defaultCountry),
		validate:       validator.New(),
	}
}

func (h *HolidayHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/holidays/:year", h.List)
}

// List 查詢失敗不影響畫面，回傳空陣列
func (h *HolidayHandler) List(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1 || year > 9999 {
		handleError(c, invalidInput("Invalid year", err), "ListHolidays")
		return
	}
	country, ok := h.country(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.lookup.Lookup(c, year, country))
}

// country resolves the ?country= parameter, falling back to the configured
// default. It writes a 400 and returns false for a malformed code.
func (h *HolidayHandler) country(c *gin.Context) (string, bool) {
	country := strings.ToUpper(strings.TrimSpace(c.DefaultQuery("country", h.defaultCountry)))
	if err := h.validate.Var(country, "required,iso3166_1_alpha2"); err != nil {
		handleError(c, invalidInput("Invalid country code", err), "ResolveCountry")
		return "", false
	}
	return country, true
}

// hasCountry reports whether the request names a country or a default is
// configured.
func (h *HolidayHandler) hasCountry(c *gin.Context) bool {
	if _, ok := c.GetQuery("country"); ok {
		return true
	}
	return h.defaultCountry != ""
}
