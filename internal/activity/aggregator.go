package activity

import (
	"time"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
)

const (
	defaultVisits            = 1
	defaultProductivityScore = 50
)

// NewDay returns an empty day for (userID, date) with its zero summary in place.
func NewDay(userID, date string, now time.Time) *entity.Day {
	day := &entity.Day{
		UserID:          userID,
		Date:            date,
		Sites:           []entity.SiteEntry{},
		FocusSessions:   []entity.FocusSession{},
		BlockedAttempts: []entity.BlockedAttempt{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	Refresh(day)
	return day
}

// ValidateVisit checks a record without touching any day.
func ValidateVisit(record entity.SiteVisitRecord) error {
	if NormalizeDomain(record.Domain) == "" {
		return invalid("domain", "must not be empty")
	}
	if record.TimeSpentMs != nil && *record.TimeSpentMs < 0 {
		return invalid("timeSpent", "must not be negative")
	}
	if record.Visits != nil && *record.Visits < 0 {
		return invalid("visits", "must not be negative")
	}
	if record.ProductivityScore != nil && (*record.ProductivityScore < 0 || *record.ProductivityScore > 100) {
		return invalid("productivityScore", "must be between 0 and 100")
	}
	if record.Session != nil {
		if err := ValidateSession(*record.Session); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSession enforces start < end and 0 <= idle <= duration.
func ValidateSession(s entity.Session) error {
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return invalid("session", "startTime and endTime are required")
	}
	if !s.StartTime.Before(s.EndTime) {
		return invalid("session", "startTime must be before endTime")
	}
	if s.DurationMs < 0 {
		return invalid("session.duration", "must not be negative")
	}
	if s.IdleTimeMs < 0 {
		return invalid("session.idleTime", "must not be negative")
	}
	if s.IdleTimeMs > s.DurationMs {
		return invalid("session.idleTime", "must not exceed duration")
	}
	return nil
}

// MergeVisit folds one record into day and rebuilds the summary. Nothing is mutated
// when the record is invalid.
func MergeVisit(day *entity.Day, record entity.SiteVisitRecord, now time.Time) error {
	if err := ValidateVisit(record); err != nil {
		return err
	}

	domain := NormalizeDomain(record.Domain)

	var timeSpent int64
	if record.TimeSpentMs != nil {
		timeSpent = *record.TimeSpentMs
	}
	visits := int64(defaultVisits)
	if record.Visits != nil {
		visits = *record.Visits
	}

	if idx := findSite(day.Sites, domain); idx >= 0 {
		site := &day.Sites[idx]
		site.TimeSpentMs += timeSpent
		site.Visits += visits
		site.LastVisit = now
		if record.Session != nil {
			site.Sessions = append(site.Sessions, *record.Session)
		}
	} else {
		category := Classify(domain)
		if record.Category != nil && *record.Category != "" {
			category = ParseCategory(*record.Category)
		}
		score := defaultProductivityScore
		if record.ProductivityScore != nil {
			score = *record.ProductivityScore
		}
		sessions := []entity.Session{}
		if record.Session != nil {
			sessions = append(sessions, *record.Session)
		}
		day.Sites = append(day.Sites, entity.SiteEntry{
			Domain:            domain,
			TimeSpentMs:       timeSpent,
			Visits:            visits,
			Category:          category,
			ProductivityScore: score,
			Sessions:          sessions,
			FirstVisit:        now,
			LastVisit:         now,
		})
	}

	day.UpdatedAt = now
	Refresh(day)
	return nil
}

// AddFocusSession appends a focus session; a missing end time is start + duration.
func AddFocusSession(day *entity.Day, req entity.FocusSessionRequest) error {
	if req.StartTime.IsZero() {
		return invalid("startTime", "is required")
	}
	if req.DurationMs == nil {
		return invalid("duration", "is required")
	}
	if *req.DurationMs < 0 {
		return invalid("duration", "must not be negative")
	}
	if req.BlockedAttempts < 0 {
		return invalid("blockedAttempts", "must not be negative")
	}

	end := req.StartTime.Add(time.Duration(*req.DurationMs) * time.Millisecond)
	if req.EndTime != nil {
		if req.EndTime.Before(req.StartTime) {
			return invalid("endTime", "must not be before startTime")
		}
		end = *req.EndTime
	}

	day.FocusSessions = append(day.FocusSessions, entity.FocusSession{
		StartTime:       req.StartTime,
		EndTime:         end,
		DurationMs:      *req.DurationMs,
		Completed:       req.Completed,
		BlockedAttempts: req.BlockedAttempts,
	})
	Refresh(day)
	return nil
}

func AddBlockedAttempt(day *entity.Day, domain string, overridden bool, at time.Time) error {
	d := NormalizeDomain(domain)
	if d == "" {
		return invalid("domain", "must not be empty")
	}

	day.BlockedAttempts = append(day.BlockedAttempts, entity.BlockedAttempt{
		Domain:     d,
		Timestamp:  at,
		Overridden: overridden,
	})
	Refresh(day)
	return nil
}

func findSite(sites []entity.SiteEntry, domain string) int {
	for i := range sites {
		if sites[i].Domain == domain {
			return i
		}
	}
	return -1
}
