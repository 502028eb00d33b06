package apperrors

import "errors"

var (
	// ErrValidation 欄位缺漏或 start > end 等資料不合法
	ErrValidation = errors.New("validation failed")
	// ErrInvalidInput 請求格式錯誤(JSON、查詢參數)
	ErrInvalidInput  = errors.New("invalid input")
	ErrEventNotFound = errors.New("event not found")
	// ErrStorage 資料庫無法連線或查詢失敗
	ErrStorage       = errors.New("storage failure")
	ErrHolidayLookup = errors.New("holiday lookup failed")
)
