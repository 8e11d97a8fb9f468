package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/storage"
)

func TestUserBasics(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	added, err := repos.Users.AddUser(ctx, &core.User{
		Email:  "user@example.com",
		Name:   "Test User",
		Locale: "en",
	})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}
	if added.Id == 0 {
		t.Fatal("Expected non-zero ID")
	}

	// Defaults applied on insert.
	if added.Tier != core.TierFree {
		t.Fatalf("Expected free tier default, got %v", added.Tier)
	}
	if added.UsageLimit != core.DefaultDailyLimit {
		t.Fatalf("Expected default daily limit %d, got %d", core.DefaultDailyLimit, added.UsageLimit)
	}

	retrieved, err := repos.Users.GetUser(ctx, added.Id)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if retrieved.Email != "user@example.com" {
		t.Fatalf("Expected 'user@example.com', got '%s'", retrieved.Email)
	}

	byEmail, err := repos.Users.GetUserByEmail(ctx, "user@example.com")
	if err != nil {
		t.Fatalf("Failed to get user by email: %v", err)
	}
	if byEmail.Id != added.Id {
		t.Fatalf("Expected ID %d, got %d", added.Id, byEmail.Id)
	}
}

func TestUserNotFound(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	if _, err := repos.Users.GetUser(ctx, 9999); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if _, err := repos.Users.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestUserDuplicateEmail(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	if _, err := repos.Users.AddUser(ctx, &core.User{Email: "user@example.com"}); err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}

	_, err := repos.Users.AddUser(ctx, &core.User{Email: "user@example.com"})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestUserUpdate(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	added, err := repos.Users.AddUser(ctx, &core.User{Email: "user@example.com", Locale: "en"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}

	added.Tier = core.TierPro
	added.School = "Hanafi"
	if _, err := repos.Users.UpdateUser(ctx, added); err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}

	retrieved, err := repos.Users.GetUser(ctx, added.Id)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if retrieved.Tier != core.TierPro {
		t.Fatalf("Expected pro tier, got %v", retrieved.Tier)
	}
	if retrieved.School != "Hanafi" {
		t.Fatalf("Expected 'Hanafi', got '%s'", retrieved.School)
	}
}

func TestUserResetDailyUsage(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	added, err := repos.Users.AddUser(ctx, &core.User{Email: "user@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}

	day1 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 0, 5, 0, 0, time.UTC)

	// First reset stamps the day.
	user, err := repos.Users.ResetDailyUsage(ctx, added.Id, day1)
	if err != nil {
		t.Fatalf("Failed to reset daily usage: %v", err)
	}
	if !user.LastReset.Equal(day1) {
		t.Fatalf("Expected LastReset %v, got %v", day1, user.LastReset)
	}

	// Accumulate usage, then reset again the same day: a no-op.
	user.UsageCount = 5
	if _, err := repos.Users.UpdateUser(ctx, user); err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	user, err = repos.Users.ResetDailyUsage(ctx, added.Id, day1.Add(6*time.Hour))
	if err != nil {
		t.Fatalf("Failed to reset daily usage: %v", err)
	}
	if user.UsageCount != 5 {
		t.Fatalf("Expected same-day reset to keep count 5, got %d", user.UsageCount)
	}

	// A new UTC day zeroes the count.
	user, err = repos.Users.ResetDailyUsage(ctx, added.Id, day2)
	if err != nil {
		t.Fatalf("Failed to reset daily usage: %v", err)
	}
	if user.UsageCount != 0 {
		t.Fatalf("Expected new-day reset to zero count, got %d", user.UsageCount)
	}
	if !user.LastReset.Equal(day2) {
		t.Fatalf("Expected LastReset %v, got %v", day2, user.LastReset)
	}
}
