// internal/service/tracking/tracking_service.go
package tracking

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/dinerozz/productivity-tracker-backend/internal/activity"
	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
	"github.com/dinerozz/productivity-tracker-backend/internal/repository"
	"github.com/dinerozz/productivity-tracker-backend/pkg/keylock"
	"github.com/dinerozz/productivity-tracker-backend/pkg/utils"
)

const (
	defaultRangeLimit   = 30
	defaultStatsDays    = 30
	defaultTopSites     = 10
	defaultLookbackDays = 7

	earliestDateKey = "0001-01-01"
	latestDateKey   = "9999-12-31"
)

type TrackingService interface {
	RecordVisit(ctx context.Context, userID string, record entity.SiteVisitRecord) (*entity.RecordVisitResponse, error)
	AddFocusSession(ctx context.Context, userID string, req entity.FocusSessionRequest) (*entity.FocusSessionResult, error)
	AddBlockedAttempt(ctx context.Context, userID string, req entity.BlockedAttemptRequest) (*entity.BlockedAttemptResult, error)
	GetToday(ctx context.Context, userID string) (*entity.DayResponse, error)
	GetDay(ctx context.Context, userID, date string) (*entity.DayResponse, error)
	GetRange(ctx context.Context, userID, startDate, endDate string, limit int) ([]entity.DayResponse, error)
	GetWeeklySummary(ctx context.Context, userID, weekStart string) (*entity.PeriodSummary, error)
	DeleteDay(ctx context.Context, userID, date string) (*entity.DeleteResult, error)
	GetStats(ctx context.Context, userID string, days int) (*entity.UserStats, error)
	GetCategoryBreakdown(ctx context.Context, userID, startDate, endDate string) (*entity.CategoryReport, error)
	GetTopSites(ctx context.Context, userID, startDate, endDate string, limit int) (*entity.TopSitesReport, error)
	Sync(ctx context.Context, userID string, req entity.SyncRequest) (*entity.SyncResult, error)
	BulkSync(ctx context.Context, userID string, req entity.BulkSyncRequest) (*entity.BulkSyncResult, error)
	ExportData(ctx context.Context, userID, startDate, endDate string, limit int) (*entity.SyncData, error)
	GetSyncStatus(ctx context.Context, userID string) (*entity.SyncStatus, error)
	DeleteData(ctx context.Context, userID string, req entity.DeleteDataRequest) (*entity.DeleteResult, error)
}

type Options struct {
	// MinVisitMs drops visits shorter than this before they reach the day.
	MinVisitMs   int64
	Location     *time.Location
	MaxRangeDays int
	Now          func() time.Time
	Logger       *slog.Logger
}

type trackingService struct {
	repo         repository.TrackingRepository
	locks        *keylock.KeyedMutex
	minVisitMs   int64
	loc          *time.Location
	maxRangeDays int
	now          func() time.Time
	logger       *slog.Logger
}

func NewTrackingService(repo repository.TrackingRepository, opts Options) TrackingService {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &trackingService{
		repo:         repo,
		locks:        keylock.New(),
		minVisitMs:   opts.MinVisitMs,
		loc:          opts.Location,
		maxRangeDays: opts.MaxRangeDays,
		now:          opts.Now,
		logger:       opts.Logger,
	}
}

// mutateDay runs fn on the stored (or a fresh) day under the (user, date) lock and saves
// the result. Nothing is written when fn fails.
func (s *trackingService) mutateDay(ctx context.Context, userID, date string, fresh bool, fn func(day *entity.Day) error) (*entity.Day, error) {
	unlock := s.locks.Lock(userID + "|" + date)
	defer unlock()

	var day *entity.Day
	if !fresh {
		stored, err := s.repo.GetDay(ctx, userID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to load day %s: %w", date, err)
		}
		day = stored
	}
	if day == nil {
		day = activity.NewDay(userID, date, s.now().UTC())
	}

	if err := fn(day); err != nil {
		return nil, err
	}
	day.UpdatedAt = s.now().UTC()

	if err := s.repo.SaveDay(ctx, day); err != nil {
		return nil, fmt.Errorf("failed to save day %s: %w", date, err)
	}
	return day, nil
}

func (s *trackingService) RecordVisit(ctx context.Context, userID string, record entity.SiteVisitRecord) (*entity.RecordVisitResponse, error) {
	if err := activity.ValidateVisit(record); err != nil {
		return nil, err
	}

	now := s.now()
	date := utils.DateKey(now, s.loc)
	if record.Date != nil && *record.Date != "" {
		if _, err := activity.ParseDate("date", *record.Date, s.loc); err != nil {
			return nil, err
		}
		date = *record.Date
	}

	var timeSpent int64
	if record.TimeSpentMs != nil {
		timeSpent = *record.TimeSpentMs
	}

	resp := &entity.RecordVisitResponse{
		Date:        date,
		Domain:      activity.NormalizeDomain(record.Domain),
		TimeSpentMs: timeSpent,
		AddedAt:     now,
	}

	if timeSpent < s.minVisitMs {
		s.logger.Debug("visit below minimum duration dropped",
			"user_id", userID,
			"domain", resp.Domain,
			"time_spent_ms", timeSpent,
		)
		return resp, nil
	}

	day, err := s.mutateDay(ctx, userID, date, false, func(day *entity.Day) error {
		return activity.MergeVisit(day, record, now.UTC())
	})
	if err != nil {
		return nil, err
	}

	resp.Recorded = true
	resp.Summary = &day.Summary
	return resp, nil
}

func (s *trackingService) AddFocusSession(ctx context.Context, userID string, req entity.FocusSessionRequest) (*entity.FocusSessionResult, error) {
	if req.StartTime.IsZero() {
		return nil, activity.NewValidationError("startTime", "is required")
	}
	date := utils.DateKey(req.StartTime, s.loc)

	day, err := s.mutateDay(ctx, userID, date, false, func(day *entity.Day) error {
		return activity.AddFocusSession(day, req)
	})
	if err != nil {
		return nil, err
	}

	if req.Completed {
		s.logger.Info("focus session completed", "user_id", userID, "date", date)
	}

	return &entity.FocusSessionResult{
		Date:     date,
		DayID:    day.ID.String(),
		SyncedAt: s.now(),
	}, nil
}

func (s *trackingService) AddBlockedAttempt(ctx context.Context, userID string, req entity.BlockedAttemptRequest) (*entity.BlockedAttemptResult, error) {
	at := s.now()
	if req.Timestamp != nil && !req.Timestamp.IsZero() {
		at = *req.Timestamp
	}
	date := utils.DateKey(at, s.loc)

	_, err := s.mutateDay(ctx, userID, date, false, func(day *entity.Day) error {
		return activity.AddBlockedAttempt(day, req.Domain, req.Overridden, at.UTC())
	})
	if err != nil {
		return nil, err
	}

	return &entity.BlockedAttemptResult{
		Domain:     activity.NormalizeDomain(req.Domain),
		Overridden: req.Overridden,
		LoggedAt:   s.now(),
	}, nil
}

func (s *trackingService) GetToday(ctx context.Context, userID string) (*entity.DayResponse, error) {
	return s.GetDay(ctx, userID, utils.DateKey(s.now(), s.loc))
}

// GetDay never fails for a date without data; it returns the empty day instead.
func (s *trackingService) GetDay(ctx context.Context, userID, date string) (*entity.DayResponse, error) {
	if _, err := activity.ParseDate("date", date, s.loc); err != nil {
		return nil, err
	}

	day, err := s.repo.GetDay(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get day: %w", err)
	}
	if day == nil {
		day = activity.NewDay(userID, date, s.now())
	}

	resp := toDayResponse(day)
	return &resp, nil
}

func (s *trackingService) GetRange(ctx context.Context, userID, startDate, endDate string, limit int) ([]entity.DayResponse, error) {
	if err := s.validateRange(startDate, endDate); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRangeLimit
	}

	days, err := s.repo.GetRange(ctx, userID, startDate, endDate, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get range: %w", err)
	}

	result := make([]entity.DayResponse, 0, len(days))
	for i := range days {
		result = append(result, toDayResponse(&days[i]))
	}
	return result, nil
}

func (s *trackingService) GetWeeklySummary(ctx context.Context, userID, weekStart string) (*entity.PeriodSummary, error) {
	start, err := activity.ParseDate("weekStart", weekStart, s.loc)
	if err != nil {
		return nil, err
	}
	end := utils.DateKey(start.AddDate(0, 0, 6), s.loc)

	days, err := s.repo.GetRange(ctx, userID, weekStart, end, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get week: %w", err)
	}

	summary := activity.Aggregate(days)
	return &summary, nil
}

func (s *trackingService) DeleteDay(ctx context.Context, userID, date string) (*entity.DeleteResult, error) {
	if _, err := activity.ParseDate("date", date, s.loc); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID + "|" + date)
	defer unlock()

	deleted, err := s.repo.DeleteDay(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to delete day: %w", err)
	}

	result := &entity.DeleteResult{Date: date, DeletedAt: s.now()}
	if deleted {
		result.DeletedCount = 1
	}
	return result, nil
}

func (s *trackingService) GetStats(ctx context.Context, userID string, days int) (*entity.UserStats, error) {
	if days <= 0 {
		days = defaultStatsDays
	}
	if s.maxRangeDays > 0 && days > s.maxRangeDays {
		return nil, activity.NewValidationError("days", fmt.Sprintf("must not exceed %d", s.maxRangeDays))
	}

	today := utils.StartOfDay(s.now().In(s.loc))
	start := utils.DateKey(today.AddDate(0, 0, -days), s.loc)

	stored, err := s.repo.GetRange(ctx, userID, start, utils.DateKey(today, s.loc), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats range: %w", err)
	}

	stats := &entity.UserStats{Days: days, ActiveDays: len(stored)}
	var scoreSum int
	for _, day := range stored {
		stats.TotalTimeMs += day.Summary.TotalTimeSpentMs
		stats.TotalSites += day.Summary.TotalSitesVisited
		stats.TotalFocusSessions += len(day.Summary.FocusSessions)
		stats.TotalBlockedAttempts += len(day.Summary.BlockedAttempts)
		for _, fs := range day.Summary.FocusSessions {
			if fs.Completed {
				stats.CompletedFocusSessions++
			}
		}
		scoreSum += day.Summary.ProductivityScore
	}
	if len(stored) > 0 {
		stats.AverageProductivityScore = int(math.Round(float64(scoreSum) / float64(len(stored))))
	}

	return stats, nil
}

func (s *trackingService) GetCategoryBreakdown(ctx context.Context, userID, startDate, endDate string) (*entity.CategoryReport, error) {
	start, end := s.defaultLookback(startDate, endDate)
	if err := s.validateRange(start, end); err != nil {
		return nil, err
	}

	days, err := s.repo.GetRange(ctx, userID, start, end, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get category range: %w", err)
	}

	var breakdown entity.CategoryBreakdown
	for _, day := range days {
		breakdown.Merge(day.Summary.CategoryBreakdown)
	}

	return &entity.CategoryReport{
		Breakdown:   breakdown,
		Percentages: activity.CategoryShares(breakdown),
		TotalTimeMs: breakdown.Total(),
		StartDate:   start,
		EndDate:     end,
	}, nil
}

func (s *trackingService) GetTopSites(ctx context.Context, userID, startDate, endDate string, limit int) (*entity.TopSitesReport, error) {
	start, end := s.defaultLookback(startDate, endDate)
	if err := s.validateRange(start, end); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultTopSites
	}

	days, err := s.repo.GetRange(ctx, userID, start, end, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get top sites range: %w", err)
	}

	rankings := rankSites(days)
	total := len(rankings)
	if len(rankings) > limit {
		rankings = rankings[:limit]
	}

	return &entity.TopSitesReport{
		TopSites:   rankings,
		TotalSites: total,
		StartDate:  start,
		EndDate:    end,
	}, nil
}

// rankSites merges site entries by domain in date order and ranks them by time spent.
// Entries with a zero score do not count towards the average.
func rankSites(days []entity.Day) []entity.SiteRanking {
	ordered := make([]entity.Day, len(days))
	copy(ordered, days)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Date < ordered[j].Date })

	type acc struct {
		ranking    entity.SiteRanking
		scoreSum   int
		scoreCount int
	}
	index := make(map[string]int)
	var merged []acc

	for _, day := range ordered {
		for _, site := range day.Sites {
			i, ok := index[site.Domain]
			if !ok {
				i = len(merged)
				index[site.Domain] = i
				merged = append(merged, acc{ranking: entity.SiteRanking{
					Domain:   site.Domain,
					Category: site.Category,
				}})
			}
			merged[i].ranking.TimeSpentMs += site.TimeSpentMs
			merged[i].ranking.Visits += site.Visits
			if site.ProductivityScore > 0 {
				merged[i].scoreSum += site.ProductivityScore
				merged[i].scoreCount++
			}
		}
	}

	rankings := make([]entity.SiteRanking, len(merged))
	for i, a := range merged {
		rankings[i] = a.ranking
		if a.scoreCount > 0 {
			rankings[i].AverageProductivityScore = int(math.Round(float64(a.scoreSum) / float64(a.scoreCount)))
		}
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].TimeSpentMs > rankings[j].TimeSpentMs
	})
	return rankings
}

func (s *trackingService) Sync(ctx context.Context, userID string, req entity.SyncRequest) (*entity.SyncResult, error) {
	now := s.now()
	result := &entity.SyncResult{
		Results:  []entity.SyncDateResult{},
		SyncedAt: now,
	}

	for _, date := range sortedKeys(req.DailyStats) {
		sites := req.DailyStats[date]
		dateResult := entity.SyncDateResult{Date: date, SitesProcessed: len(sites)}

		if _, err := activity.ParseDate("date", date, s.loc); err != nil {
			s.logger.Warn("sync skipped invalid date", "user_id", userID, "date", date)
			dateResult.Error = err.Error()
			result.Results = append(result.Results, dateResult)
			continue
		}

		var addedTime int64
		var addedSites int
		_, err := s.mutateDay(ctx, userID, date, false, func(day *entity.Day) error {
			addedTime, addedSites = 0, 0
			for _, domain := range sortedKeys(sites) {
				stats := sites[domain]
				if stats.TimeSpentMs <= 0 {
					continue
				}
				if err := activity.MergeVisit(day, siteStatsRecord(domain, stats), now.UTC()); err != nil {
					return fmt.Errorf("%s: %w", domain, err)
				}
				addedTime += stats.TimeSpentMs
				addedSites++
			}
			return nil
		})
		if err != nil {
			s.logger.Warn("sync failed for date", "user_id", userID, "date", date, "error", err)
			dateResult.Error = err.Error()
			result.Results = append(result.Results, dateResult)
			continue
		}

		dateResult.Success = true
		result.TotalTimeAddedMs += addedTime
		result.TotalSitesAdded += addedSites
		result.Results = append(result.Results, dateResult)
	}

	return result, nil
}

func (s *trackingService) BulkSync(ctx context.Context, userID string, req entity.BulkSyncRequest) (*entity.BulkSyncResult, error) {
	now := s.now()
	result := &entity.BulkSyncResult{
		Results:  []entity.SyncDateResult{},
		SyncedAt: now,
	}

	for _, bulkDay := range req.Data {
		dateResult := entity.SyncDateResult{Date: bulkDay.Date, SitesProcessed: len(bulkDay.Sites)}

		err := s.applyBulkDay(ctx, userID, bulkDay, req.Overwrite, now)
		if err != nil {
			s.logger.Warn("bulk sync failed for date", "user_id", userID, "date", bulkDay.Date, "error", err)
			dateResult.Error = err.Error()
			result.TotalErrors++
		} else {
			dateResult.Success = true
			result.TotalProcessed++
		}
		result.Results = append(result.Results, dateResult)
	}

	return result, nil
}

func (s *trackingService) applyBulkDay(ctx context.Context, userID string, bulkDay entity.BulkDay, overwrite bool, now time.Time) error {
	if bulkDay.Date == "" || bulkDay.Sites == nil {
		return activity.NewValidationError("data", "date and sites are required")
	}
	if _, err := activity.ParseDate("date", bulkDay.Date, s.loc); err != nil {
		return err
	}

	_, err := s.mutateDay(ctx, userID, bulkDay.Date, overwrite, func(day *entity.Day) error {
		for _, domain := range sortedKeys(bulkDay.Sites) {
			if err := activity.MergeVisit(day, siteStatsRecord(domain, bulkDay.Sites[domain]), now.UTC()); err != nil {
				return fmt.Errorf("%s: %w", domain, err)
			}
		}
		for _, fs := range bulkDay.FocusSessions {
			if err := activity.AddFocusSession(day, fs); err != nil {
				return err
			}
		}
		for _, attempt := range bulkDay.BlockedAttempts {
			at := now
			if attempt.Timestamp != nil {
				at = *attempt.Timestamp
			}
			if err := activity.AddBlockedAttempt(day, attempt.Domain, attempt.Overridden, at.UTC()); err != nil {
				return err
			}
		}
		return nil
	})
	return err
}

func (s *trackingService) ExportData(ctx context.Context, userID, startDate, endDate string, limit int) (*entity.SyncData, error) {
	start, end := startDate, endDate
	if start == "" {
		start = earliestDateKey
	} else if _, err := activity.ParseDate("startDate", start, s.loc); err != nil {
		return nil, err
	}
	if end == "" {
		end = latestDateKey
	} else if _, err := activity.ParseDate("endDate", end, s.loc); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRangeLimit
	}

	days, err := s.repo.GetRange(ctx, userID, start, end, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to export data: %w", err)
	}

	data := &entity.SyncData{
		DailyStats:   make(map[string]map[string]entity.SiteStats, len(days)),
		LastSyncedAt: s.now(),
	}
	for _, day := range days {
		sites := make(map[string]entity.SiteStats, len(day.Sites))
		for _, site := range day.Sites {
			visits := site.Visits
			category := string(site.Category)
			score := site.ProductivityScore
			sites[site.Domain] = entity.SiteStats{
				TimeSpentMs:       site.TimeSpentMs,
				Visits:            &visits,
				Category:          &category,
				ProductivityScore: &score,
			}
		}
		data.DailyStats[day.Date] = sites
	}
	return data, nil
}

func (s *trackingService) GetSyncStatus(ctx context.Context, userID string) (*entity.SyncStatus, error) {
	latest, err := s.repo.GetLatestDay(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync status: %w", err)
	}

	status := &entity.SyncStatus{ServerTime: s.now()}
	if latest != nil {
		date := latest.Date
		updated := latest.UpdatedAt
		status.LastSyncedDate = &date
		status.LastUpdatedAt = &updated
	}
	return status, nil
}

func (s *trackingService) DeleteData(ctx context.Context, userID string, req entity.DeleteDataRequest) (*entity.DeleteResult, error) {
	if !req.ConfirmDelete {
		return nil, activity.NewValidationError("confirmDelete", "confirmation required to delete data")
	}

	var (
		count int64
		err   error
	)
	if req.DateRange == nil {
		count, err = s.repo.DeleteAll(ctx, userID)
	} else {
		start, end := req.DateRange.StartDate, req.DateRange.EndDate
		if start == "" {
			start = earliestDateKey
		}
		if end == "" {
			end = latestDateKey
		}
		if err := s.validateKeys(start, end); err != nil {
			return nil, err
		}
		count, err = s.repo.DeleteRange(ctx, userID, start, end)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete data: %w", err)
	}

	s.logger.Info("tracking data deleted", "user_id", userID, "count", count)
	return &entity.DeleteResult{DeletedCount: count, DeletedAt: s.now()}, nil
}

func (s *trackingService) validateRange(startDate, endDate string) error {
	start, err := activity.ParseDate("startDate", startDate, s.loc)
	if err != nil {
		return err
	}
	end, err := activity.ParseDate("endDate", endDate, s.loc)
	if err != nil {
		return err
	}
	return activity.ValidateRange(start, end, s.maxRangeDays)
}

// validateKeys checks an open-ended range where either side may be a sentinel.
func (s *trackingService) validateKeys(start, end string) error {
	if start != earliestDateKey {
		if _, err := activity.ParseDate("startDate", start, s.loc); err != nil {
			return err
		}
	}
	if end != latestDateKey {
		if _, err := activity.ParseDate("endDate", end, s.loc); err != nil {
			return err
		}
	}
	if start > end {
		return activity.NewValidationError("startDate", "must not be after endDate")
	}
	return nil
}

// defaultLookback fills missing bounds with the last seven days ending today.
func (s *trackingService) defaultLookback(startDate, endDate string) (string, string) {
	today := utils.StartOfDay(s.now().In(s.loc))
	if endDate == "" {
		endDate = utils.DateKey(today, s.loc)
	}
	if startDate == "" {
		startDate = utils.DateKey(today.AddDate(0, 0, -defaultLookbackDays), s.loc)
	}
	return startDate, endDate
}

func toDayResponse(day *entity.Day) entity.DayResponse {
	sites := day.Sites
	if sites == nil {
		sites = []entity.SiteEntry{}
	}
	return entity.DayResponse{
		Date:         day.Date,
		Sites:        sites,
		Summary:      day.Summary,
		ActiveTimeMs: activity.ActiveTime(day),
	}
}

func siteStatsRecord(domain string, stats entity.SiteStats) entity.SiteVisitRecord {
	timeSpent := stats.TimeSpentMs
	return entity.SiteVisitRecord{
		Domain:            domain,
		TimeSpentMs:       &timeSpent,
		Visits:            stats.Visits,
		Category:          stats.Category,
		ProductivityScore: stats.ProductivityScore,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
