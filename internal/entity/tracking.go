// entity/tracking.go
package entity

import (
	"time"

	"github.com/gofrs/uuid"
)

type Category string

const (
	CategoryWork          Category = "Work"
	CategorySocialMedia   Category = "Social Media"
	CategoryEntertainment Category = "Entertainment"
	CategoryNews          Category = "News"
	CategoryShopping      Category = "Shopping"
	CategoryEducation     Category = "Education"
	CategoryHealth        Category = "Health"
	CategoryFinance       Category = "Finance"
	CategoryOther         Category = "Other"
)

// Categories lists every category in breakdown order.
var Categories = []Category{
	CategoryWork,
	CategorySocialMedia,
	CategoryEntertainment,
	CategoryNews,
	CategoryShopping,
	CategoryEducation,
	CategoryHealth,
	CategoryFinance,
	CategoryOther,
}

// Session is a single continuous stay on a site. Durations are milliseconds.
type Session struct {
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	DurationMs int64     `json:"duration"`
	IdleTimeMs int64     `json:"idleTime"`
	IsActive   bool      `json:"isActive"`
}

// SiteVisitRecord is the incremental payload sent by the extension.
type SiteVisitRecord struct {
	Domain            string   `json:"domain" binding:"required"`
	TimeSpentMs       *int64   `json:"timeSpent" binding:"required"`
	Visits            *int64   `json:"visits,omitempty"`
	Category          *string  `json:"category,omitempty"`
	ProductivityScore *int     `json:"productivityScore,omitempty"`
	Session           *Session `json:"session,omitempty"`
	Date              *string  `json:"date,omitempty"`
}

type SiteEntry struct {
	Domain            string    `json:"domain"`
	TimeSpentMs       int64     `json:"timeSpent"`
	Visits            int64     `json:"visits"`
	Category          Category  `json:"category"`
	ProductivityScore int       `json:"productivityScore"`
	Sessions          []Session `json:"sessions"`
	FirstVisit        time.Time `json:"firstVisit"`
	LastVisit         time.Time `json:"lastVisit"`
}

type FocusSession struct {
	StartTime       time.Time `json:"startTime"`
	EndTime         time.Time `json:"endTime"`
	DurationMs      int64     `json:"duration"`
	Completed       bool      `json:"completed"`
	BlockedAttempts int       `json:"blockedAttempts"`
}

type BlockedAttempt struct {
	Domain     string    `json:"domain"`
	Timestamp  time.Time `json:"timestamp"`
	Overridden bool      `json:"overridden"`
}

type CategoryBreakdown struct {
	Work          int64 `json:"work"`
	SocialMedia   int64 `json:"socialMedia"`
	Entertainment int64 `json:"entertainment"`
	News          int64 `json:"news"`
	Shopping      int64 `json:"shopping"`
	Education     int64 `json:"education"`
	Health        int64 `json:"health"`
	Finance       int64 `json:"finance"`
	Other         int64 `json:"other"`
}

// Add accumulates ms into the bucket of c; unknown categories land in Other.
func (b *CategoryBreakdown) Add(c Category, ms int64) {
	switch c {
	case CategoryWork:
		b.Work += ms
	case CategorySocialMedia:
		b.SocialMedia += ms
	case CategoryEntertainment:
		b.Entertainment += ms
	case CategoryNews:
		b.News += ms
	case CategoryShopping:
		b.Shopping += ms
	case CategoryEducation:
		b.Education += ms
	case CategoryHealth:
		b.Health += ms
	case CategoryFinance:
		b.Finance += ms
	default:
		b.Other += ms
	}
}

func (b CategoryBreakdown) Get(c Category) int64 {
	switch c {
	case CategoryWork:
		return b.Work
	case CategorySocialMedia:
		return b.SocialMedia
	case CategoryEntertainment:
		return b.Entertainment
	case CategoryNews:
		return b.News
	case CategoryShopping:
		return b.Shopping
	case CategoryEducation:
		return b.Education
	case CategoryHealth:
		return b.Health
	case CategoryFinance:
		return b.Finance
	default:
		return b.Other
	}
}

// Merge adds every bucket of other into b.
func (b *CategoryBreakdown) Merge(other CategoryBreakdown) {
	for _, c := range Categories {
		b.Add(c, other.Get(c))
	}
}

func (b CategoryBreakdown) Total() int64 {
	var total int64
	for _, c := range Categories {
		total += b.Get(c)
	}
	return total
}

type TopSite struct {
	Domain      string   `json:"domain"`
	TimeSpentMs int64    `json:"timeSpent"`
	Visits      int64    `json:"visits"`
	Category    Category `json:"category"`
}

// Summary is derived from a Day and rebuilt on every mutation.
type Summary struct {
	TotalTimeSpentMs  int64             `json:"totalTimeSpent"`
	TotalSitesVisited int               `json:"totalSitesVisited"`
	ProductivityScore int               `json:"productivityScore"`
	CategoryBreakdown CategoryBreakdown `json:"categoryBreakdown"`
	TopSites          []TopSite         `json:"topSites"`
	FocusSessions     []FocusSession    `json:"focusSessions"`
	BlockedAttempts   []BlockedAttempt  `json:"blockedAttempts"`
}

// Day is the per-user, per-calendar-date aggregate.
type Day struct {
	ID              uuid.UUID        `json:"id" db:"id"`
	UserID          string           `json:"userId" db:"user_id"`
	Date            string           `json:"date" db:"date_key"`
	Sites           []SiteEntry      `json:"sites"`
	FocusSessions   []FocusSession   `json:"-"`
	BlockedAttempts []BlockedAttempt `json:"-"`
	Summary         Summary          `json:"summary"`
	CreatedAt       time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time        `json:"updatedAt" db:"updated_at"`
}

type DayResponse struct {
	Date         string      `json:"date"`
	Sites        []SiteEntry `json:"sites"`
	Summary      Summary     `json:"summary"`
	ActiveTimeMs int64       `json:"activeTime"`
}

type FocusSessionRequest struct {
	StartTime       time.Time  `json:"startTime" binding:"required"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DurationMs      *int64     `json:"duration" binding:"required"`
	Completed       bool       `json:"completed"`
	BlockedAttempts int        `json:"blockedAttempts"`
}

type BlockedAttemptRequest struct {
	Domain     string     `json:"domain" binding:"required"`
	Overridden bool       `json:"overridden"`
	Timestamp  *time.Time `json:"timestamp,omitempty"`
}

type RecordVisitResponse struct {
	Date        string    `json:"date"`
	Domain      string    `json:"domain"`
	TimeSpentMs int64     `json:"timeSpent"`
	Recorded    bool      `json:"recorded"`
	Summary     *Summary  `json:"summary,omitempty"`
	AddedAt     time.Time `json:"addedAt"`
}
