package common

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

var monthsGenitive = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

var weekdaysShort = [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// TodayLabel marks the first forecast day.
const TodayLabel = "Сегодня"

// FormatDate renders a date as "<day> <month>", e.g. "5 марта".
func FormatDate(t time.Time) string {
	return strconv.Itoa(t.Day()) + " " + monthsGenitive[t.Month()-1]
}

// DayLabel returns "Сегодня" for the first day of a forecast and the short
// weekday name otherwise.
func DayLabel(t time.Time, index int) string {
	if index == 0 {
		return TodayLabel
	}
	return weekdaysShort[t.Weekday()]
}

// NewID returns an opaque unique token.
func NewID() string {
	return uuid.NewString()
}
