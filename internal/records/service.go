package records

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/osse101/ExpTracker_Go/internal/domain"
	"github.com/osse101/ExpTracker_Go/internal/logger"
	"github.com/osse101/ExpTracker_Go/internal/repository"
)

// Service manages the user-curated saved records. It never reads or writes
// the live tracking history.
type Service interface {
	// Save creates a record from the current aggregate rate.
	Save(ctx context.Context, draft domain.RecordDraft, expPerMinute float64) (*domain.SavedExpRecord, error)
	// Update replaces the record with the given id in place.
	Update(ctx context.Context, id string, draft domain.RecordDraft) (*domain.SavedExpRecord, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.SavedExpRecord, error)
	List(ctx context.Context) ([]domain.SavedExpRecord, error)
	// ResetTotal drops a manual total and goes back to the calculated one.
	ResetTotal(ctx context.Context, id string) (*domain.SavedExpRecord, error)
}

type service struct {
	repo     repository.Records
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// NewService creates a new saved record service
func NewService(repo repository.Records) Service {
	return &service{
		repo:     repo,
		validate: NewValidator(),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// NewValidator returns a validator that understands the draft tags,
// including "nocontrol" which rejects control characters in names.
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(TagNoControl, func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsControl)
	})
	return v
}

// AutoTotal is the calculated total for a rate held over a duration.
func AutoTotal(expPerMinute, minutes float64) int64 {
	return int64(math.Round(expPerMinute * minutes))
}

func (s *service) Save(ctx context.Context, draft domain.RecordDraft, expPerMinute float64) (*domain.SavedExpRecord, error) {
	if err := s.check(ctx, &draft); err != nil {
		return nil, err
	}
	if draft.ExpPerMinute != nil {
		expPerMinute = *draft.ExpPerMinute
	}
	if expPerMinute < 0 || math.IsNaN(expPerMinute) {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgNegativeRate)
	}

	now := s.now().UTC()
	rec := &domain.SavedExpRecord{
		ID:           s.newID(),
		MonsterName:  draft.MonsterName,
		Minutes:      draft.Minutes,
		ExpPerMinute: expPerMinute,
		SavedAt:      now,
		UpdatedAt:    now,
	}
	applyTotal(rec, draft.TotalExpOverride)

	if err := s.repo.CreateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgSaveFailed, err)
	}
	logger.FromContext(ctx).Info(LogMsgRecordSaved, "id", rec.ID, "monster", rec.MonsterName, "total_exp", rec.TotalExp, "manual", rec.TotalExpManual)
	return rec, nil
}

func (s *service) Update(ctx context.Context, id string, draft domain.RecordDraft) (*domain.SavedExpRecord, error) {
	if err := s.check(ctx, &draft); err != nil {
		return nil, err
	}
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rec.MonsterName = draft.MonsterName
	rec.Minutes = draft.Minutes
	if draft.ExpPerMinute != nil {
		rec.ExpPerMinute = *draft.ExpPerMinute
	}
	switch {
	case draft.TotalExpOverride != nil:
		applyTotal(rec, draft.TotalExpOverride)
	case !rec.TotalExpManual:
		applyTotal(rec, nil)
	}
	rec.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdateFailed, err)
	}
	logger.FromContext(ctx).Info(LogMsgRecordUpdated, "id", rec.ID, "total_exp", rec.TotalExp, "manual", rec.TotalExpManual)
	return rec, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyID)
	}
	if err := s.repo.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgDeleteFailed, err)
	}
	logger.FromContext(ctx).Info(LogMsgRecordDeleted, "id", id)
	return nil
}

func (s *service) Get(ctx context.Context, id string) (*domain.SavedExpRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgEmptyID)
	}
	rec, err := s.repo.GetRecord(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadFailed, err)
	}
	return rec, nil
}

func (s *service) List(ctx context.Context) ([]domain.SavedExpRecord, error) {
	return s.repo.ListRecords(ctx)
}

func (s *service) ResetTotal(ctx context.Context, id string) (*domain.SavedExpRecord, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyTotal(rec, nil)
	rec.UpdatedAt = s.now().UTC()

	if err := s.repo.UpdateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgUpdateFailed, err)
	}
	logger.FromContext(ctx).Info(LogMsgRecordTotalReset, "id", rec.ID, "total_exp", rec.TotalExp)
	return rec, nil
}

func (s *service) check(ctx context.Context, draft *domain.RecordDraft) error {
	draft.MonsterName = strings.TrimSpace(draft.MonsterName)
	if err := s.validate.Struct(draft); err != nil {
		logger.FromContext(ctx).Debug(LogMsgRecordInvalidDraft, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	return nil
}

// applyTotal sets the record total from an override, or from the rate when
// override is nil.
func applyTotal(rec *domain.SavedExpRecord, override *int64) {
	if override != nil {
		rec.TotalExp = *override
		rec.TotalExpManual = true
		return
	}
	rec.TotalExp = AutoTotal(rec.ExpPerMinute, rec.Minutes)
	rec.TotalExpManual = false
}
