package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/gastrohealth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gastrohealth/internal/client/session"
)

// RemindersKey is the metadata key holding the JSON encoded reminder list.
const RemindersKey = "reminders"

const reminderTimeLayout = "15:04"

// Reminder is a daily local notice, e.g. "08:00 take probiotic".
type Reminder struct {
	ID   string `json:"id"`
	At   string `json:"at"`
	Text string `json:"text"`
}

// ReminderService keeps reminders on this device only.
type ReminderService struct {
	repo metadata.Repository
	mu   sync.Mutex
}

func NewReminderService(repo metadata.Repository) *ReminderService {
	return &ReminderService{repo: repo}
}

// List returns reminders ordered by time of day.
func (s *ReminderService) List(ctx context.Context) ([]Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

func (s *ReminderService) Add(ctx context.Context, at, text string) (*Reminder, error) {
	at = strings.TrimSpace(at)
	text = strings.TrimSpace(text)

	t, err := time.Parse(reminderTimeLayout, at)
	if err != nil {
		return nil, fmt.Errorf("%w: time must look like 08:30", session.ErrValidation)
	}
	if text == "" {
		return nil, fmt.Errorf("%w: reminder text is required", session.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	r := Reminder{ID: uuid.NewString(), At: t.Format(reminderTimeLayout), Text: text}
	list = append(list, r)
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return &r, nil
}

// Remove deletes the reminder with the given id. Unknown ids are ignored.
func (s *ReminderService) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}
	list = slices.DeleteFunc(list, func(r Reminder) bool { return r.ID == id })
	return s.save(ctx, list)
}

func (s *ReminderService) load(ctx context.Context) ([]Reminder, error) {
	raw, err := s.repo.Get(ctx, RemindersKey)
	if err != nil {
		return nil, err
	}
	list := []Reminder{}
	if len(raw) == 0 {
		return list, nil
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode reminders: %w", err)
	}
	slices.SortStableFunc(list, func(a, b Reminder) int { return strings.Compare(a.At, b.At) })
	return list, nil
}

func (s *ReminderService) save(ctx context.Context, list []Reminder) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode reminders: %w", err)
	}
	return s.repo.Set(ctx, RemindersKey, raw)
}
