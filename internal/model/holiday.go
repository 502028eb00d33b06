package model

// HolidayDateLayout is the calendar-date layout used by Holiday.Date.
const HolidayDateLayout = "2006-01-02"

// DefaultHolidayType 上游未提供類型時使用
const DefaultHolidayType = "Public Holiday"

type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
	Type string `json:"type"`
}
