package activity

import (
	"time"

	"github.com/dinerozz/productivity-tracker-backend/pkg/utils"
)

// ParseDate reads a YYYY-MM-DD request value as local midnight in loc.
func ParseDate(field, value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, invalid(field, "is required")
	}
	t, err := utils.ParseDateKey(value, loc)
	if err != nil {
		return time.Time{}, invalid(field, err.Error())
	}
	return t, nil
}

// ValidateRange rejects start after end and spans longer than maxDays (0 disables the cap).
func ValidateRange(start, end time.Time, maxDays int) error {
	if start.After(end) {
		return invalid("startDate", "must not be after endDate")
	}
	if maxDays > 0 && utils.DaysInclusive(start, end) > maxDays {
		return invalid("endDate", "range is too long")
	}
	return nil
}
