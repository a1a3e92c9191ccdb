package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/paobai-next/internal/constants"
	"github.com/paobai-next/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupSessionRepositoryTest(t *testing.T) (*GormSessionRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:session_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Table{},
		&models.DiningSession{},
		&models.Diner{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewSessionRepository(db), db
}

func TestSessionRepositoryGetActiveByTableID(t *testing.T) {
	repo, _ := setupSessionRepositoryTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	closed := models.DiningSession{
		ID:             models.NewPrefixedID("SS"),
		RestaurantID:   constants.DefaultRestaurantID,
		TableID:        7,
		LeaderOpenID:   "openid_a",
		Status:         constants.SessionStatusClosed,
		StartedAt:      now.Add(-2 * time.Hour),
	}
	active := models.DiningSession{
		ID:             models.NewPrefixedID("SS"),
		RestaurantID:   constants.DefaultRestaurantID,
		TableID:        7,
		LeaderOpenID:   "openid_b",
		Status:         constants.SessionStatusActive,
		StartedAt:      now,
	}
	if err := repo.Create(&closed); err != nil {
		t.Fatalf("create closed session failed: %v", err)
	}
	if err := repo.Create(&active); err != nil {
		t.Fatalf("create active session failed: %v", err)
	}

	got, err := repo.GetActiveByTableID(7)
	if err != nil {
		t.Fatalf("get active session failed: %v", err)
	}
	if got == nil {
		t.Fatalf("expected active session, got nil")
	}
	if got.ID != active.ID {
		t.Fatalf("expected session %s, got %s", active.ID, got.ID)
	}

	none, err := repo.GetActiveByTableID(99)
	if err != nil {
		t.Fatalf("get active session for empty table failed: %v", err)
	}
	if none != nil {
		t.Fatalf("expected nil for table without active session, got %v", none.ID)
	}
}

func TestSessionRepositoryDinerUniquePerSession(t *testing.T) {
	repo, _ := setupSessionRepositoryTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	session := models.DiningSession{
		ID:           models.NewPrefixedID("SS"),
		RestaurantID: constants.DefaultRestaurantID,
		TableID:      1,
		LeaderOpenID: "openid_leader",
		Status:       constants.SessionStatusActive,
		StartedAt:    now,
	}
	if err := repo.Create(&session); err != nil {
		t.Fatalf("create session failed: %v", err)
	}

	diner := models.Diner{
		SessionID: session.ID,
		OpenID:    "openid_leader",
		Nickname:  "领队",
		IsLeader:  true,
		JoinedAt:  now,
	}
	if err := repo.CreateDiner(&diner); err != nil {
		t.Fatalf("create diner failed: %v", err)
	}

	dup := models.Diner{
		SessionID: session.ID,
		OpenID:    "openid_leader",
		Nickname:  "重复加入",
		JoinedAt:  now,
	}
	if err := repo.CreateDiner(&dup); err == nil {
		t.Fatalf("expected unique constraint violation for duplicate diner")
	}

	count, err := repo.CountDiners(session.ID)
	if err != nil {
		t.Fatalf("count diners failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 diner, got %d", count)
	}
}

func TestSessionRepositoryGetDinerByOpenID(t *testing.T) {
	repo, _ := setupSessionRepositoryTest(t)
	now := time.Now().UTC().Truncate(time.Second)

	session := models.DiningSession{
		ID:           models.NewPrefixedID("SS"),
		RestaurantID: constants.DefaultRestaurantID,
		TableID:      2,
		LeaderOpenID: "openid_leader",
		Status:       constants.SessionStatusActive,
		StartedAt:    now,
	}
	if err := repo.Create(&session); err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if err := repo.CreateDiner(&models.Diner{
		SessionID:    session.ID,
		OpenID:       "openid_leader",
		Nickname:     "领队",
		IsLeader:     true,
		JoinedAt:     now,
		LastActiveAt: now,
	}); err != nil {
		t.Fatalf("create diner failed: %v", err)
	}

	got, err := repo.GetDiner(session.ID, "openid_leader")
	if err != nil {
		t.Fatalf("get diner failed: %v", err)
	}
	if got == nil || got.OpenID != "openid_leader" {
		t.Fatalf("expected diner openid_leader, got %+v", got)
	}

	missing, err := repo.GetDiner(session.ID, "openid_stranger")
	if err != nil {
		t.Fatalf("get missing diner failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for stranger, got %+v", missing)
	}

	later := now.Add(10 * time.Minute)
	if err := repo.TouchDiner(session.ID, "openid_leader", later); err != nil {
		t.Fatalf("touch diner failed: %v", err)
	}
	touched, err := repo.GetDiner(session.ID, "openid_leader")
	if err != nil {
		t.Fatalf("get diner after touch failed: %v", err)
	}
	if !touched.LastActiveAt.Equal(later) {
		t.Fatalf("last active not updated: got %v want %v", touched.LastActiveAt, later)
	}
}
