package utils

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate разбирает календарную дату YYYY-MM-DD в UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}
