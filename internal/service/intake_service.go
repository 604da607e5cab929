package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sahos-screening-server/internal/domain"
	"github.com/sahos-screening-server/internal/questionnaire"
)

// DefaultConclusionDelay is the processing pause before a conclusion is delivered.
const DefaultConclusionDelay = 500 * time.Millisecond

// ResetConfirmationPrompt is the question asked before a reset.
const ResetConfirmationPrompt = "Êtes-vous sûr de vouloir créer un nouveau rapport ? Toutes les données actuelles non enregistrées seront perdues."

// IntakeOptions tunes an IntakeService.
type IntakeOptions struct {
	// ConclusionDelay is waited before each conclusion; zero disables it.
	ConclusionDelay time.Duration
	Cache           *ConclusionCache
	Now             func() time.Time
}

// IntakeService drives the single in-progress intake session: field edits,
// questionnaire submissions, step navigation, conclusion and reset. Every
// mutation is persisted; persistence failures are logged and never returned.
type IntakeService struct {
	mu         sync.Mutex
	logger     *logrus.Logger
	store      domain.SessionStore
	aggregator *RiskAggregator
	cache      *ConclusionCache
	delay      time.Duration
	now        func() time.Time
	session    *domain.Session
}

// NewIntakeService creates a new intake service holding a default session. Call
// Load to restore the persisted one.
func NewIntakeService(logger *logrus.Logger, store domain.SessionStore, opts IntakeOptions) *IntakeService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &IntakeService{
		logger:     logger,
		store:      store,
		aggregator: NewRiskAggregator(logger, now),
		cache:      opts.Cache,
		delay:      opts.ConclusionDelay,
		now:        now,
		session:    domain.NewSession(now()),
	}
}

// QuestionnaireSubmission is the modal result of a questionnaire submission.
type QuestionnaireSubmission struct {
	Score          int                          `json:"score"`
	Interpretation questionnaire.Interpretation `json:"interpretation"`
}

// QuestionnaireForm is a questionnaire as displayed for the current patient.
type QuestionnaireForm struct {
	*questionnaire.Definition
	Questions []questionnaire.QuestionView `json:"questions"`
	Score     *int                         `json:"score,omitempty"`
}

// Load restores the persisted session. Absent or unreadable data falls back to
// a default session.
func (s *IntakeService) Load(ctx context.Context) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.Load(ctx)
	switch {
	case err == nil:
		stored.Normalize()
		s.session = stored
		s.logger.WithFields(logrus.Fields{
			"current_step":    stored.CurrentStep,
			"completed_steps": stored.CompletedSteps,
		}).Info("Session restored")
	case errors.Is(err, domain.ErrNotFound):
		s.session = domain.NewSession(s.now())
		s.logger.Debug("No stored session, starting a new one")
	default:
		s.session = domain.NewSession(s.now())
		s.logger.WithError(err).Warn("Failed to load session, starting a new one")
	}
	return s.session.Clone()
}

// Session returns a copy of the current session.
func (s *IntakeService) Session() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Clone()
}

// ApplyUpdates applies form edits in order. Either every update applies or none does.
func (s *IntakeService) ApplyUpdates(ctx context.Context, updates ...domain.FieldUpdate) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.session.Clone()
	for _, u := range updates {
		if err := u.Apply(next); err != nil {
			s.logger.WithFields(logrus.Fields{
				"category": u.Category(),
				"error":    err.Error(),
			}).Debug("Rejected field update")
			return nil, err
		}
	}
	s.session = next
	s.persist(ctx)
	return s.session.Clone(), nil
}

// Questionnaire returns a questionnaire rendered for the current patient, with
// the recorded score when it was already submitted.
func (s *IntakeService) Questionnaire(t domain.QuestionnaireType) (*QuestionnaireForm, error) {
	def, err := questionnaire.Lookup(t)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	form := &QuestionnaireForm{
		Definition: def,
		Questions:  def.Render(s.session.Demographics, s.session.ConsultationData, s.now()),
	}
	if score, ok := s.session.QuestionnaireScores.Get(t); ok {
		form.Score = &score
	}
	return form, nil
}

// SubmitQuestionnaire scores a questionnaire, records the score and returns its
// interpretation. A resubmission overwrites the previous score.
func (s *IntakeService) SubmitQuestionnaire(ctx context.Context, t domain.QuestionnaireType, answers questionnaire.Answers) (*QuestionnaireSubmission, error) {
	def, err := questionnaire.Lookup(t)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	score, err := questionnaire.Score(def, answers, s.session.Demographics, s.session.ConsultationData, s.now())
	if err != nil {
		return nil, err
	}

	s.session.SetScore(t, score)
	s.persist(ctx)

	interp := def.Interpret(score)
	s.logger.WithFields(logrus.Fields{
		"questionnaire": t,
		"score":         score,
		"tier":          interp.Label,
	}).Info("Questionnaire submitted")

	return &QuestionnaireSubmission{Score: score, Interpretation: interp}, nil
}

// NextStep validates the current step, marks it completed and moves forward.
// The last step stays current.
func (s *IntakeService) NextStep(ctx context.Context) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.session.CurrentStep
	if err := ValidateStep(current, s.session); err != nil {
		return nil, err
	}
	s.session.MarkCompleted(current)
	if current < domain.StepConclusion {
		s.session.CurrentStep = current + 1
	}
	s.persist(ctx)

	s.logger.WithFields(logrus.Fields{
		"from": current,
		"to":   s.session.CurrentStep,
	}).Debug("Advanced step")
	return s.session.Clone(), nil
}

// PreviousStep moves back one step. It never fails; step 1 stays current.
func (s *IntakeService) PreviousStep(ctx context.Context) *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.CurrentStep > domain.StepIdentity {
		s.session.CurrentStep--
		s.persist(ctx)
	}
	return s.session.Clone()
}

// GoToStep jumps to a completed step, to step 1 or to the current step.
func (s *IntakeService) GoToStep(ctx context.Context, step domain.StepID) (*domain.Session, error) {
	if !step.IsValid() {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidStep, step)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if step != domain.StepIdentity && step != s.session.CurrentStep && !s.session.IsCompleted(step) {
		return nil, fmt.Errorf("%w: step %d", domain.ErrStepLocked, step)
	}
	if step != s.session.CurrentStep {
		s.session.CurrentStep = step
		s.persist(ctx)
	}
	return s.session.Clone(), nil
}

// GenerateConclusion waits the configured delay, aggregates the current data,
// stores the conclusion and marks the conclusion step completed.
func (s *IntakeService) GenerateConclusion(ctx context.Context) (*domain.AppConclusion, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	conclusion := s.aggregate()
	s.session.AppConclusion = conclusion
	s.session.MarkCompleted(domain.StepConclusion)
	s.persist(ctx)

	s.logger.WithFields(logrus.Fields(conclusion.RiskLevel.LogFields())).Info("Conclusion generated")
	return copyConclusion(conclusion), nil
}

func (s *IntakeService) aggregate() *domain.AppConclusion {
	sess := s.session
	if s.cache == nil {
		return s.aggregator.Aggregate(sess.Demographics, sess.ConsultationData, sess.QuestionnaireScores)
	}

	key := s.cache.Key(s.now().Format(domain.DateLayout), sess.Demographics, sess.ConsultationData, sess.QuestionnaireScores)
	if cached, ok := s.cache.Get(key); ok {
		s.logger.WithField("risk_level", cached.RiskLevel).Debug("Conclusion served from cache")
		return cached
	}
	conclusion := s.aggregator.Aggregate(sess.Demographics, sess.ConsultationData, sess.QuestionnaireScores)
	s.cache.Put(key, conclusion)
	return conclusion
}

// Reset restores a default session and removes the persisted one. confirm is
// asked first; a nil confirm means the caller suppressed the confirmation.
func (s *IntakeService) Reset(ctx context.Context, confirm func(prompt string) bool) (*domain.Session, error) {
	if confirm != nil && !confirm(ResetConfirmationPrompt) {
		return nil, domain.ErrResetNotConfirmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = domain.NewSession(s.now())
	if err := s.store.Delete(ctx); err != nil {
		s.logger.WithError(err).Warn("Failed to remove stored session")
	}
	s.logger.Info("Session reset")
	return s.session.Clone(), nil
}

// CacheStats returns conclusion cache statistics, or nil without a cache.
func (s *IntakeService) CacheStats() *ConclusionCacheStats {
	if s.cache == nil {
		return nil
	}
	stats := s.cache.Stats()
	return &stats
}

// persist writes the session. Callers hold s.mu.
func (s *IntakeService) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.session.Clone()); err != nil {
		s.logger.WithError(err).Warn("Failed to save session")
	}
}
