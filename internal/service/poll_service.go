package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"vozgestora/internal/cache"
	"vozgestora/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// wizardTTL bounds how long an abandoned wizard lingers in the cache
const wizardTTL = 30 * time.Minute

// CompletionFunc receives the feedback of a wizard that reached SUCCESS
type CompletionFunc func(ctx context.Context, f model.Feedback) error

// wizardLock serializes one wizard; refs counts holders and waiters so the
// entry leaves the map with its last user
type wizardLock struct {
	sync.Mutex
	refs int
}

type pendingCompletion struct {
	timer    *time.Timer
	feedback model.Feedback
}

// PollService drives citizen poll wizards
type PollService struct {
	wizards    cache.WizardCache
	directory  *DirectoryService
	classifier *SentimentClassifier
	onComplete CompletionFunc
	delay      time.Duration
	logger     *zap.Logger
	now        func() time.Time

	// guards pending and serializes wizard read-modify-write
	mu      sync.Mutex
	locks   map[string]*wizardLock
	pending map[string]*pendingCompletion
	running sync.WaitGroup
}

// NewPollService creates a poll service; onComplete runs delay after a successful submit
func NewPollService(wizards cache.WizardCache, directory *DirectoryService, classifier *SentimentClassifier, onComplete CompletionFunc, delay time.Duration, logger *zap.Logger) *PollService {
	return &PollService{
		wizards:    wizards,
		directory:  directory,
		classifier: classifier,
		onComplete: onComplete,
		delay:      delay,
		logger:     logger,
		now:        time.Now,
		locks:      make(map[string]*wizardLock),
		pending:    make(map[string]*pendingCompletion),
	}
}

func (s *PollService) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &wizardLock{}
		s.locks[id] = l
	}
	l.refs++
	s.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		s.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.locks, id)
		}
		s.mu.Unlock()
	}
}

// Start opens a new wizard on the IDENTIFY step
func (s *PollService) Start(ctx context.Context, municipalityID string) (*model.PollWizard, error) {
	if _, err := s.directory.Get(municipalityID); err != nil {
		return nil, err
	}
	w := model.NewPollWizard(uuid.New().String(), municipalityID, s.now())
	if err := s.wizards.Set(ctx, &w, wizardTTL); err != nil {
		return nil, err
	}
	s.logger.Debug("poll wizard started", zap.String("wizard", w.ID), zap.String("municipality", municipalityID))
	return &w, nil
}

// Get returns the current wizard state
func (s *PollService) Get(ctx context.Context, id string) (*model.PollWizard, error) {
	w, err := s.wizards.Get(ctx, id)
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrWizardNotFound
	}
	return w, err
}

// step loads the wizard, applies fn and stores the result
func (s *PollService) step(ctx context.Context, id string, fn func(model.PollWizard) (model.PollWizard, error)) (*model.PollWizard, error) {
	unlock := s.lock(id)
	defer unlock()

	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := fn(*w)
	if err != nil {
		return nil, err
	}
	if err := s.wizards.Set(ctx, &next, wizardTTL); err != nil {
		return nil, err
	}
	return &next, nil
}

// Identify records the citizen identity
func (s *PollService) Identify(ctx context.Context, id string, identity model.CitizenIdentity) (*model.PollWizard, error) {
	if identity.Coords == nil {
		s.logger.Debug("poll identified without location", zap.String("wizard", id))
	}
	return s.step(ctx, id, func(w model.PollWizard) (model.PollWizard, error) {
		return w.Identify(identity)
	})
}

// ChooseCategory records the feedback category
func (s *PollService) ChooseCategory(ctx context.Context, id string, c model.Category) (*model.PollWizard, error) {
	return s.step(ctx, id, func(w model.PollWizard) (model.PollWizard, error) {
		return w.ChooseCategory(c)
	})
}

// Back returns to the previous step
func (s *PollService) Back(ctx context.Context, id string) (*model.PollWizard, error) {
	return s.step(ctx, id, func(w model.PollWizard) (model.PollWizard, error) {
		return w.Back()
	})
}

// Submit classifies the comment, moves the wizard to SUCCESS and schedules
// the completion callback. The second return value reports why AI
// classification fell back, if it did.
func (s *PollService) Submit(ctx context.Context, id string, rating int, comment string) (*model.PollWizard, model.AIErrorKind, error) {
	unlock := s.lock(id)
	defer unlock()

	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, model.AIErrorNone, err
	}
	if err := w.CheckSubmission(rating, comment); err != nil {
		return nil, model.AIErrorNone, err
	}
	m, err := s.directory.Get(w.MunicipalityID)
	if err != nil {
		return nil, model.AIErrorNone, err
	}

	class := s.classifier.Classify(ctx, m.Name, comment, &rating)
	f := w.Compose(uuid.New().String(), rating, comment, class.Sentiment, class.Source, s.now())
	next, err := w.Succeed(f)
	if err != nil {
		return nil, model.AIErrorNone, err
	}
	if err := s.wizards.Set(ctx, &next, wizardTTL); err != nil {
		return nil, model.AIErrorNone, err
	}

	s.schedule(next.ID, f)
	return &next, class.Error, nil
}

func (s *PollService) schedule(id string, f model.Feedback) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &pendingCompletion{feedback: f}
	p.timer = time.AfterFunc(s.delay, func() { s.complete(id, p) })
	s.pending[id] = p
}

// complete hands the feedback off unless the wizard was closed meanwhile
func (s *PollService) complete(id string, p *pendingCompletion) {
	s.mu.Lock()
	if s.pending[id] != p {
		s.mu.Unlock()
		return
	}
	delete(s.pending, id)
	s.running.Add(1)
	s.mu.Unlock()
	defer s.running.Done()

	ctx := context.Background()
	if err := s.onComplete(ctx, p.feedback); err != nil {
		s.logger.Error("poll completion failed", zap.String("wizard", id), zap.Error(err))
	}
	if err := s.wizards.Delete(ctx, id); err != nil {
		s.logger.Warn("drop poll wizard failed", zap.String("wizard", id), zap.Error(err))
	}
}

// Close discards the wizard. A pending completion is cancelled, so a closed
// wizard never records its feedback. Close waits for an in-flight step or
// submit on the same wizard before discarding it.
func (s *PollService) Close(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	s.mu.Lock()
	if p, ok := s.pending[id]; ok {
		p.timer.Stop()
		delete(s.pending, id)
	}
	s.mu.Unlock()

	return s.wizards.Delete(ctx, id)
}

// Shutdown runs every pending completion now and waits for in-flight ones
func (s *PollService) Shutdown(ctx context.Context) {
	s.mu.Lock()
	flush := make(map[string]*pendingCompletion, len(s.pending))
	for id, p := range s.pending {
		if p.timer.Stop() {
			flush[id] = p
		}
	}
	s.mu.Unlock()

	for id, p := range flush {
		s.complete(id, p)
	}

	done := make(chan struct{})
	go func() {
		s.running.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
