// entity/sync.go
package entity

import "time"

type SiteStats struct {
	TimeSpentMs       int64   `json:"timeSpent"`
	Visits            *int64  `json:"visits,omitempty"`
	Category          *string `json:"category,omitempty"`
	ProductivityScore *int    `json:"productivityScore,omitempty"`
}

// SyncRequest carries the extension's local dailyStats keyed by date then domain.
type SyncRequest struct {
	DailyStats map[string]map[string]SiteStats `json:"dailyStats" binding:"required"`
	Timestamp  *time.Time                      `json:"timestamp,omitempty"`
}

type SyncDateResult struct {
	Date           string `json:"date"`
	SitesProcessed int    `json:"sitesProcessed"`
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
}

type SyncResult struct {
	Results          []SyncDateResult `json:"syncResults"`
	TotalTimeAddedMs int64            `json:"totalTimeAdded"`
	TotalSitesAdded  int              `json:"totalSitesAdded"`
	SyncedAt         time.Time        `json:"syncedAt"`
}

type BulkDay struct {
	Date            string                  `json:"date"`
	Sites           map[string]SiteStats    `json:"sites"`
	FocusSessions   []FocusSessionRequest   `json:"focusSessions,omitempty"`
	BlockedAttempts []BlockedAttemptRequest `json:"blockedAttempts,omitempty"`
}

type BulkSyncRequest struct {
	Data      []BulkDay `json:"data" binding:"required"`
	Overwrite bool      `json:"overwrite"`
}

type BulkSyncResult struct {
	TotalProcessed int              `json:"totalProcessed"`
	TotalErrors    int              `json:"totalErrors"`
	Results        []SyncDateResult `json:"results"`
	SyncedAt       time.Time        `json:"syncedAt"`
}

type DateRange struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// DeleteDataRequest clears synced data; without a range every day of the user goes.
type DeleteDataRequest struct {
	ConfirmDelete bool       `json:"confirmDelete"`
	DateRange     *DateRange `json:"dateRange,omitempty"`
}

type DeleteResult struct {
	DeletedCount int64     `json:"deletedCount"`
	Date         string    `json:"date,omitempty"`
	DeletedAt    time.Time `json:"deletedAt"`
}

// SyncData is the server copy handed back to the extension, keyed like SyncRequest.
type SyncData struct {
	DailyStats   map[string]map[string]SiteStats `json:"dailyStats"`
	LastSyncedAt time.Time                       `json:"lastSyncedAt"`
}

type FocusSessionResult struct {
	Date     string    `json:"date"`
	DayID    string    `json:"dayId"`
	SyncedAt time.Time `json:"syncedAt"`
}

type BlockedAttemptResult struct {
	Domain     string    `json:"domain"`
	Overridden bool      `json:"overridden"`
	LoggedAt   time.Time `json:"loggedAt"`
}
