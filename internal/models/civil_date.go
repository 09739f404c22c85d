package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const civilDateLayout = "2006-01-02"

var ErrInvalidCivilDate = errors.New("invalid civil date")

// CivilDate is a calendar day without time of day or timezone.
// The zero value is not a valid date; use IsZero to detect it.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

func NewCivilDate(year int, month time.Month, day int) CivilDate {
	return CivilDateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// CivilDateOf returns the calendar day of value in its own location.
func CivilDateOf(value time.Time) CivilDate {
	year, month, day := value.Date()
	return CivilDate{Year: year, Month: month, Day: day}
}

// Today returns the civil date of now as observed in location.
func Today(now time.Time, location *time.Location) CivilDate {
	if location == nil {
		location = time.UTC
	}
	return CivilDateOf(now.In(location))
}

func ParseCivilDate(raw string) (CivilDate, error) {
	parsed, err := time.ParseInLocation(civilDateLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return CivilDate{}, fmt.Errorf("%w: %q", ErrInvalidCivilDate, raw)
	}
	return CivilDateOf(parsed), nil
}

func (date CivilDate) IsZero() bool {
	return date == CivilDate{}
}

func (date CivilDate) String() string {
	if date.IsZero() {
		return ""
	}
	return date.utc().Format(civilDateLayout)
}

// Time returns midnight of date in location.
func (date CivilDate) Time(location *time.Location) time.Time {
	return date.At(0, 0, location)
}

// At returns the wall-clock instant hour:minute of date in location.
func (date CivilDate) At(hour int, minute int, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return time.Date(date.Year, date.Month, date.Day, hour, minute, 0, 0, location)
}

func (date CivilDate) AddDays(days int) CivilDate {
	return CivilDateOf(time.Date(date.Year, date.Month, date.Day+days, 0, 0, 0, 0, time.UTC))
}

func (date CivilDate) Weekday() time.Weekday {
	return date.utc().Weekday()
}

func (date CivilDate) Before(other CivilDate) bool {
	return date.Compare(other) < 0
}

func (date CivilDate) After(other CivilDate) bool {
	return date.Compare(other) > 0
}

func (date CivilDate) Equal(other CivilDate) bool {
	return date == other
}

func (date CivilDate) Compare(other CivilDate) int {
	switch {
	case date.Year != other.Year:
		return compareInts(date.Year, other.Year)
	case date.Month != other.Month:
		return compareInts(int(date.Month), int(other.Month))
	default:
		return compareInts(date.Day, other.Day)
	}
}

// DaysBetween returns to - from in whole days; negative when to is earlier.
func DaysBetween(from CivilDate, to CivilDate) int {
	return int(to.utc().Sub(from.utc()).Hours() / 24)
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns the weekday of the 1st, 0 = Sunday.
func FirstWeekdayOfMonth(year int, month time.Month) int {
	return int(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday())
}

func (date CivilDate) utc() time.Time {
	return time.Date(date.Year, date.Month, date.Day, 0, 0, 0, 0, time.UTC)
}

func (date CivilDate) MarshalJSON() ([]byte, error) {
	if date.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(date.String())
}

func (date *CivilDate) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*date = CivilDate{}
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidCivilDate, raw)
	}
	parsed, err := ParseCivilDate(text)
	if err != nil {
		return err
	}
	*date = parsed
	return nil
}

func (date CivilDate) Value() (driver.Value, error) {
	if date.IsZero() {
		return nil, nil
	}
	return date.String(), nil
}

func (date *CivilDate) Scan(value any) error {
	switch typed := value.(type) {
	case nil:
		*date = CivilDate{}
		return nil
	case time.Time:
		*date = CivilDateOf(typed)
		return nil
	case string:
		return date.scanText(typed)
	case []byte:
		return date.scanText(string(typed))
	default:
		return fmt.Errorf("%w: unsupported column type %T", ErrInvalidCivilDate, value)
	}
}

func (date *CivilDate) scanText(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > len(civilDateLayout) {
		trimmed = trimmed[:len(civilDateLayout)]
	}
	parsed, err := ParseCivilDate(trimmed)
	if err != nil {
		return err
	}
	*date = parsed
	return nil
}

func compareInts(a int, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
