package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/gastrohealth/internal/common"
	"github.com/dmitrijs2005/gastrohealth/internal/models"
)

func TestSymptomAdd_ReturnsFullList(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{u: newFakeUsers(), s: newFakeSymptoms()}
	rm.s.entries["u1"] = []models.SymptomLog{{ID: "s-0", Symptoms: []string{"nausea"}, Severity: 1}}
	s := NewSymptomService(db, rm)
	fixed := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	entry := &models.SymptomLog{Symptoms: []string{" bloating ", ""}, Severity: 3, Foods: "beans"}
	list, err := s.Add(context.Background(), "u1", entry)
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("want 2 entries, got %d", len(list))
	}
	last := list[1]
	if !last.Date.Equal(fixed) || last.Symptoms[0] != "bloating" || len(last.Symptoms) != 1 {
		t.Fatalf("unexpected entry: %+v", last)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSymptomAdd_KeepsClientDate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{u: newFakeUsers(), s: newFakeSymptoms()}
	s := NewSymptomService(db, rm)

	date := time.Date(2024, 12, 24, 20, 0, 0, 0, time.UTC)
	list, err := s.Add(context.Background(), "u1", &models.SymptomLog{Date: date, Symptoms: []string{"cramps"}, Severity: 5})
	if err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if !list[0].Date.Equal(date) {
		t.Fatalf("date overwritten: %v", list[0].Date)
	}
}

func TestSymptomAdd_Validation(t *testing.T) {
	rm := &fakeRepoManager{u: newFakeUsers(), s: newFakeSymptoms()}
	s := NewSymptomService(nil, rm)

	cases := []*models.SymptomLog{
		nil,
		{Symptoms: nil, Severity: 2},
		{Symptoms: []string{"  "}, Severity: 2},
		{Symptoms: []string{"bloating"}, Severity: 0},
		{Symptoms: []string{"bloating"}, Severity: 6},
	}
	for i, c := range cases {
		if _, err := s.Add(context.Background(), "u1", c); !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("case %d: want ErrorValidation, got %v", i, err)
		}
	}
}

func TestSymptomAdd_RollsBackOnAddError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{u: newFakeUsers(), s: newFakeSymptoms()}
	rm.s.addErr = errBoom{}
	s := NewSymptomService(db, rm)

	_, err := s.Add(context.Background(), "u1", &models.SymptomLog{Symptoms: []string{"gas"}, Severity: 2})
	if err == nil || !regexp.MustCompile(`error adding symptom: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped add error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSymptomAdd_RollsBackOnListError(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{u: newFakeUsers(), s: newFakeSymptoms()}
	rm.s.listErr = errBoom{}
	s := NewSymptomService(db, rm)

	_, err := s.Add(context.Background(), "u1", &models.SymptomLog{Symptoms: []string{"gas"}, Severity: 2})
	if err == nil || !regexp.MustCompile(`error listing symptoms: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped list error, got %v", err)
	}
}
