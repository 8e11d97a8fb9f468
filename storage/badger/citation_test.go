package badger

import (
	"context"
	"errors"
	"testing"

	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/storage"
)

func TestCitationBasics(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	user, err := repos.Users.AddUser(ctx, &core.User{Email: "user@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}

	added, err := repos.Citations.AddCitation(ctx, &core.SavedCitation{
		UserId:     user.Id,
		SourceType: "verse",
		SourceRef:  "Quran 2:43",
		Content:    "And establish prayer and give zakat",
	})
	if err != nil {
		t.Fatalf("Failed to add citation: %v", err)
	}
	if added.Id == 0 {
		t.Fatal("Expected non-zero citation ID")
	}
	if added.CreatedAt.IsZero() {
		t.Fatal("Expected CreatedAt to be set")
	}

	citations, err := repos.Citations.GetCitationsByUser(ctx, user.Id)
	if err != nil {
		t.Fatalf("Failed to get citations: %v", err)
	}
	if len(citations) != 1 {
		t.Fatalf("Expected 1 citation, got %d", len(citations))
	}
	if citations[0].SourceRef != "Quran 2:43" {
		t.Fatalf("Expected 'Quran 2:43', got '%s'", citations[0].SourceRef)
	}
}

func TestCitationsScopedToUser(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	alice, err := repos.Users.AddUser(ctx, &core.User{Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}
	bob, err := repos.Users.AddUser(ctx, &core.User{Email: "bob@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}

	refs := []string{"Quran 2:43", "Sahih al-Bukhari 1395"}
	for _, ref := range refs {
		_, err := repos.Citations.AddCitation(ctx, &core.SavedCitation{
			UserId:     alice.Id,
			SourceType: "verse",
			SourceRef:  ref,
		})
		if err != nil {
			t.Fatalf("Failed to add citation: %v", err)
		}
	}
	_, err = repos.Citations.AddCitation(ctx, &core.SavedCitation{
		UserId:     bob.Id,
		SourceType: "web",
		SourceRef:  "https://example.org/zakat",
	})
	if err != nil {
		t.Fatalf("Failed to add citation: %v", err)
	}

	citations, err := repos.Citations.GetCitationsByUser(ctx, alice.Id)
	if err != nil {
		t.Fatalf("Failed to get citations: %v", err)
	}
	if len(citations) != 2 {
		t.Fatalf("Expected 2 citations, got %d", len(citations))
	}
	for _, citation := range citations {
		if citation.UserId != alice.Id {
			t.Fatalf("Expected only citations owned by %d, got one owned by %d", alice.Id, citation.UserId)
		}
	}
}

func TestDeleteCitation(t *testing.T) {
	repos := newTestRepositories(t)
	ctx := context.Background()

	owner, err := repos.Users.AddUser(ctx, &core.User{Email: "owner@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}
	other, err := repos.Users.AddUser(ctx, &core.User{Email: "other@example.com"})
	if err != nil {
		t.Fatalf("Failed to add user: %v", err)
	}

	citation, err := repos.Citations.AddCitation(ctx, &core.SavedCitation{
		UserId:     owner.Id,
		SourceType: "ruling",
		SourceRef:  "Radd al-Muhtar 2:5",
	})
	if err != nil {
		t.Fatalf("Failed to add citation: %v", err)
	}

	// Foreign and absent citations are indistinguishable.
	if err := repos.Citations.DeleteCitation(ctx, citation.Id, other.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for foreign citation, got %v", err)
	}
	if err := repos.Citations.DeleteCitation(ctx, 9999, owner.Id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for absent citation, got %v", err)
	}

	if err := repos.Citations.DeleteCitation(ctx, citation.Id, owner.Id); err != nil {
		t.Fatalf("Failed to delete citation: %v", err)
	}
	citations, err := repos.Citations.GetCitationsByUser(ctx, owner.Id)
	if err != nil {
		t.Fatalf("Failed to get citations: %v", err)
	}
	if len(citations) != 0 {
		t.Fatalf("Expected no citations after delete, got %d", len(citations))
	}
}
