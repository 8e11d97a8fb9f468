package badger

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/storage"
)

func TestRecordTurnCountsUsage(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	user, err := repos.Users.AddUser(ctx, &core.User{Email: "user@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}
	session, err := repos.Sessions.AddSession(ctx, &core.Session{UserId: user.Id, Title: "Zakat"})
	if err != nil {
		t.Fatalf("Failed to add session: %v", err)
	}

	turn, err := repos.History.RecordTurn(ctx, &core.ConversationTurn{
		SessionId: session.Id,
		UserId:    user.Id,
		Query:     "Who must pay zakat?",
		Response:  "Every Muslim whose wealth exceeds the nisab.",
		Locale:    "en",
	})
	if err != nil {
		t.Fatalf("Failed to record turn: %v", err)
	}
	if turn.Id == 0 {
		t.Fatal("Expected non-zero turn ID")
	}
	if turn.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	// The usage increment lands in the same transaction as the turn.
	stored, err := repos.Users.GetUser(ctx, user.Id)
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if stored.UsageCount != 1 {
		t.Fatalf("Expected usage count 1, got %d", stored.UsageCount)
	}
}

func TestRecordTurnUnknownUser(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	_, err := repos.History.RecordTurn(ctx, &core.ConversationTurn{
		SessionId: 1,
		UserId:    9999,
		Query:     "question",
		Response:  "answer",
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
}

func TestGetTurnsBySession(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	user, err := repos.Users.AddUser(ctx, &core.User{Email: "user@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}
	other, err := repos.Users.AddUser(ctx, &core.User{Email: "other@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}
	session, err := repos.Sessions.AddSession(ctx, &core.Session{UserId: user.Id, Title: "Zakat"})
	if err != nil {
		t.Fatalf("Failed to add session: %v", err)
	}

	for i := 0; i < 3; i++ {
		_, err := repos.History.RecordTurn(ctx, &core.ConversationTurn{
			SessionId: session.Id,
			UserId:    user.Id,
			Query:     fmt.Sprintf("question %d", i),
			Response:  "answer",
		})
		if err != nil {
			t.Fatalf("Failed to record turn: %v", err)
		}
	}

	turns, err := repos.History.GetTurnsBySession(ctx, session.Id, user.Id)
	if err != nil {
		t.Fatalf("Failed to get turns: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("Expected 3 turns, got %d", len(turns))
	}
	// Recording order is preserved.
	for i, turn := range turns {
		if turn.Query != fmt.Sprintf("question %d", i) {
			t.Fatalf("Expected 'question %d' at position %d, got '%s'", i, i, turn.Query)
		}
	}

	// A foreign reader sees nothing, not even existence.
	if _, err := repos.History.GetTurnsBySession(ctx, session.Id, other.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for foreign session, got %v", err)
	}
}

func TestGetRecentTurns(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	user, err := repos.Users.AddUser(ctx, &core.User{Email: "user@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}
	session, err := repos.Sessions.AddSession(ctx, &core.Session{UserId: user.Id, Title: "Zakat"})
	if err != nil {
		t.Fatalf("Failed to add session: %v", err)
	}

	for i := 0; i < 5; i++ {
		_, err := repos.History.RecordTurn(ctx, &core.ConversationTurn{
			SessionId: session.Id,
			UserId:    user.Id,
			Query:     fmt.Sprintf("question %d", i),
			Response:  "answer",
		})
		if err != nil {
			t.Fatalf("Failed to record turn: %v", err)
		}
	}

	turns, err := repos.History.GetRecentTurns(ctx, user.Id, 3)
	if err != nil {
		t.Fatalf("Failed to get recent turns: %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("Expected 3 turns, got %d", len(turns))
	}
	// Newest first.
	for i, turn := range turns {
		want := fmt.Sprintf("question %d", 4-i)
		if turn.Query != want {
			t.Fatalf("Expected '%s' at position %d, got '%s'", want, i, turn.Query)
		}
	}

	none, err := repos.History.GetRecentTurns(ctx, user.Id, 0)
	if err != nil {
		t.Fatalf("Failed to get recent turns with zero limit: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("Expected no turns with zero limit, got %d", len(none))
	}
}

func TestDeleteTurn(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	user, err := repos.Users.AddUser(ctx, &core.User{Email: "user@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}
	other, err := repos.Users.AddUser(ctx, &core.User{Email: "other@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}
	session, err := repos.Sessions.AddSession(ctx, &core.Session{UserId: user.Id, Title: "Zakat"})
	if err != nil {
		t.Fatalf("Failed to add session: %v", err)
	}
	turn, err := repos.History.RecordTurn(ctx, &core.ConversationTurn{
		SessionId: session.Id,
		UserId:    user.Id,
		Query:     "question",
		Response:  "answer",
	})
	if err != nil {
		t.Fatalf("Failed to record turn: %v", err)
	}

	if err := repos.History.DeleteTurn(ctx, turn.Id, other.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for foreign turn, got %v", err)
	}
	if err := repos.History.DeleteTurn(ctx, turn.Id, user.Id); err != nil {
		t.Fatalf("Failed to delete turn: %v", err)
	}

	turns, err := repos.History.GetTurnsBySession(ctx, session.Id, user.Id)
	if err != nil {
		t.Fatalf("Failed to get turns: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("Expected no turns after delete, got %d", len(turns))
	}
}

func TestDeleteTurnsByUser(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	user, err := repos.Users.AddUser(ctx, &core.User{Email: "user@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}
	session, err := repos.Sessions.AddSession(ctx, &core.Session{UserId: user.Id, Title: "Zakat"})
	if err != nil {
		t.Fatalf("Failed to add session: %v", err)
	}

	for i := 0; i < 3; i++ {
		_, err := repos.History.RecordTurn(ctx, &core.ConversationTurn{
			SessionId: session.Id,
			UserId:    user.Id,
			Query:     "question",
			Response:  "answer",
		})
		if err != nil {
			t.Fatalf("Failed to record turn: %v", err)
		}
	}

	if err := repos.History.DeleteTurnsByUser(ctx, user.Id); err != nil {
		t.Fatalf("Failed to delete turns: %v", err)
	}

	turns, err := repos.History.GetRecentTurns(ctx, user.Id, 10)
	if err != nil {
		t.Fatalf("Failed to get recent turns: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("Expected no turns after delete, got %d", len(turns))
	}
}
