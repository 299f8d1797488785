package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/gofrs/uuid"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
)

// fakeRepository stores JSON snapshots so callers never share memory with the store.
type fakeRepository struct {
	mu      sync.Mutex
	days    map[string][]byte
	saves   int
	saveErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{days: make(map[string][]byte)}
}

func fakeKey(userID, date string) string {
	return userID + "|" + date
}

// stored is the JSON form of entity.Day plus the fields hidden from clients.
type stored struct {
	entity.Day
	Focus   []entity.FocusSession   `json:"focus"`
	Blocked []entity.BlockedAttempt `json:"blocked"`
}

func (f *fakeRepository) decode(raw []byte) *entity.Day {
	var s stored
	if err := json.Unmarshal(raw, &s); err != nil {
		panic(err)
	}
	day := s.Day
	day.FocusSessions = s.Focus
	day.BlockedAttempts = s.Blocked
	return &day
}

func (f *fakeRepository) GetDay(_ context.Context, userID, date string) (*entity.Day, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw, ok := f.days[fakeKey(userID, date)]
	if !ok {
		return nil, nil
	}
	return f.decode(raw), nil
}

func (f *fakeRepository) SaveDay(_ context.Context, day *entity.Day) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.saveErr != nil {
		return f.saveErr
	}
	key := fakeKey(day.UserID, day.Date)
	if existing, ok := f.days[key]; ok {
		day.ID = f.decode(existing).ID
	} else if day.ID == uuid.Nil {
		day.ID = uuid.Must(uuid.NewV4())
	}

	raw, err := json.Marshal(stored{Day: *day, Focus: day.FocusSessions, Blocked: day.BlockedAttempts})
	if err != nil {
		return err
	}
	f.days[key] = raw
	f.saves++
	return nil
}

func (f *fakeRepository) GetRange(_ context.Context, userID, start, end string, limit int) ([]entity.Day, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var days []entity.Day
	for _, raw := range f.days {
		day := f.decode(raw)
		if day.UserID == userID && day.Date >= start && day.Date <= end {
			days = append(days, *day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date > days[j].Date })
	if limit > 0 && len(days) > limit {
		days = days[:limit]
	}
	return days, nil
}

func (f *fakeRepository) GetLatestDay(_ context.Context, userID string) (*entity.Day, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest *entity.Day
	for _, raw := range f.days {
		day := f.decode(raw)
		if day.UserID != userID {
			continue
		}
		if latest == nil || day.UpdatedAt.After(latest.UpdatedAt) {
			latest = day
		}
	}
	return latest, nil
}

func (f *fakeRepository) DeleteDay(_ context.Context, userID, date string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := fakeKey(userID, date)
	if _, ok := f.days[key]; !ok {
		return false, nil
	}
	delete(f.days, key)
	return true, nil
}

func (f *fakeRepository) DeleteRange(_ context.Context, userID, start, end string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var count int64
	for key, raw := range f.days {
		day := f.decode(raw)
		if day.UserID == userID && day.Date >= start && day.Date <= end {
			delete(f.days, key)
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	return f.DeleteRange(ctx, userID, earliestDateKey, latestDateKey)
}

var errStorage = errors.New("storage unavailable")
