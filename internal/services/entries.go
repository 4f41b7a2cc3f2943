package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AnshRaj112/journal-backend/internal/models"
	"github.com/AnshRaj112/journal-backend/internal/repository"
	"github.com/AnshRaj112/journal-backend/pkg/utils"
	"go.uber.org/zap"
)

// EntryService implements list, save and delete of journal entries. Every
// call is scoped by the owner identity passed in by the caller.
type EntryService struct {
	entries repository.EntryRepository
	log     *zap.Logger
	now     func() time.Time
}

func NewEntryService(entries repository.EntryRepository, log *zap.Logger) *EntryService {
	return &EntryService{entries: entries, log: log, now: time.Now}
}

// List returns the owner's entries, newest first.
func (s *EntryService) List(ctx context.Context, owner models.Identity) ([]models.Entry, error) {
	entries, err := s.entries.ListByOwner(ctx, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

// Upsert saves a draft. A draft whose id resolves to an entry owned by the
// caller updates that entry in place; a draft without an id, or with an id
// that is unknown or owned by someone else, creates a new entry. The second
// return value reports whether an entry was created.
func (s *EntryService) Upsert(ctx context.Context, owner models.Identity, draft models.EntryDraft) (models.Entry, bool, error) {
	if err := validateDraft(draft); err != nil {
		return models.Entry{}, false, err
	}

	if draft.ID != nil {
		existing, err := s.entries.GetOwned(ctx, owner.UserID, *draft.ID)
		switch {
		case err == nil:
			updated, err := s.update(ctx, existing, draft)
			if !errors.Is(err, repository.ErrNotFound) {
				return updated, false, err
			}
			// deleted between read and write
		case errors.Is(err, repository.ErrNotFound):
		default:
			return models.Entry{}, false, fmt.Errorf("load entry: %w", err)
		}
		s.log.Debug("entry id not owned by caller, creating new entry",
			zap.Int64("requested_id", *draft.ID),
			zap.String("user_id", owner.UserID.String()),
		)
	}

	created, err := s.create(ctx, owner, draft)
	if err != nil {
		return models.Entry{}, false, err
	}
	return created, true, nil
}

func (s *EntryService) update(ctx context.Context, e models.Entry, draft models.EntryDraft) (models.Entry, error) {
	if draft.Title != nil {
		e.Title = *draft.Title
	}
	if draft.Content != nil {
		e.Content = *draft.Content
	}
	if draft.Duration != nil {
		e.Duration = *draft.Duration
	}
	e.IPAddress = optionalIP(draft.IPAddress)
	e.UpdatedAt = s.now().UTC()

	if err := s.entries.Update(ctx, &e); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Entry{}, err
		}
		return models.Entry{}, fmt.Errorf("update entry: %w", err)
	}
	return e, nil
}

func (s *EntryService) create(ctx context.Context, owner models.Identity, draft models.EntryDraft) (models.Entry, error) {
	now := s.now().UTC()
	e := models.Entry{
		UserID:    owner.UserID,
		Title:     valueOr(draft.Title, models.DefaultEntryTitle),
		Content:   valueOr(draft.Content, ""),
		Duration:  valueOr(draft.Duration, models.DefaultDuration),
		IPAddress: optionalIP(draft.IPAddress),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.entries.Create(ctx, &e); err != nil {
		return models.Entry{}, fmt.Errorf("create entry: %w", err)
	}
	return e, nil
}

// Delete removes an owned entry. Unknown ids and entries owned by someone
// else both yield repository.ErrNotFound.
func (s *EntryService) Delete(ctx context.Context, owner models.Identity, id int64) error {
	err := s.entries.DeleteOwned(ctx, owner.UserID, id)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete entry: %w", err)
	}
	return err
}

func validateDraft(d models.EntryDraft) error {
	if d.Title != nil && len([]rune(*d.Title)) > models.MaxTitleLength {
		return &utils.ValidationError{Field: "title", Message: fmt.Sprintf("Title must be at most %d characters", models.MaxTitleLength)}
	}
	if d.Duration != nil && len([]rune(*d.Duration)) > models.MaxDurationLength {
		return &utils.ValidationError{Field: "durationStr", Message: fmt.Sprintf("Duration must be at most %d characters", models.MaxDurationLength)}
	}
	return nil
}

func valueOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func optionalIP(ip string) *string {
	if ip == "" {
		return nil
	}
	return &ip
}
