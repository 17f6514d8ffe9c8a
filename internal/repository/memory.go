package repository

import (
	"context"
	"sort"
	"sync"

	"vozgestora/internal/model"
)

// In-memory implementations. They hold the session-only working set and are
// the default backend; every read returns copies so callers cannot mutate
// stored records.

type memFeedbackRepo struct {
	mu    sync.RWMutex
	items map[string]model.Feedback
}

// NewMemoryFeedbackRepo creates an in-memory feedback repository
func NewMemoryFeedbackRepo() FeedbackRepo {
	return &memFeedbackRepo{items: make(map[string]model.Feedback)}
}

func (r *memFeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[f.ID] = *f
	return nil
}

func (r *memFeedbackRepo) GetByID(ctx context.Context, id string) (*model.Feedback, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (r *memFeedbackRepo) ListByMunicipality(ctx context.Context, municipalityID string, filter model.FeedbackFilter, limit int) ([]*model.Feedback, error) {
	r.mu.RLock()
	out := []*model.Feedback{}
	for _, f := range r.items {
		if f.MunicipalityID != municipalityID || !filter.Match(&f) {
			continue
		}
		f := f
		out = append(out, &f)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].ID > out[j].ID
		}
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memFeedbackRepo) UpdateStatus(ctx context.Context, id string, status model.FeedbackStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.items[id]
	if !ok {
		return ErrNotFound
	}
	f.Status = status
	r.items[id] = f
	return nil
}

type memAlertRepo struct {
	mu    sync.RWMutex
	items map[string]model.Alert
}

// NewMemoryAlertRepo creates an in-memory alert repository
func NewMemoryAlertRepo() AlertRepo {
	return &memAlertRepo{items: make(map[string]model.Alert)}
}

func (r *memAlertRepo) Create(ctx context.Context, alert *model.Alert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[alert.ID] = *alert
	return nil
}

func (r *memAlertRepo) ListByMunicipality(ctx context.Context, municipalityID string) ([]*model.Alert, error) {
	r.mu.RLock()
	out := []*model.Alert{}
	for _, a := range r.items {
		if a.MunicipalityID == municipalityID {
			a := a
			out = append(out, &a)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID < out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *memAlertRepo) Delete(ctx context.Context, municipalityID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok || a.MunicipalityID != municipalityID {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memAlertRepo) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.items)), nil
}

type memReportRepo struct {
	mu     sync.RWMutex
	latest map[string]model.StrategicReport // municipalityID -> newest report
}

// NewMemoryReportRepo creates an in-memory report repository that keeps the newest report per municipality
func NewMemoryReportRepo() ReportRepo {
	return &memReportRepo{latest: make(map[string]model.StrategicReport)}
}

func (r *memReportRepo) Save(ctx context.Context, report *model.StrategicReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.latest[report.MunicipalityID]; ok && cur.CreatedAt.After(report.CreatedAt) {
		return nil
	}
	r.latest[report.MunicipalityID] = *report
	return nil
}

func (r *memReportRepo) Latest(ctx context.Context, municipalityID string) (*model.StrategicReport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.latest[municipalityID]
	if !ok {
		return nil, nil
	}
	return &report, nil
}
