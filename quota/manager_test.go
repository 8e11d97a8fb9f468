package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/storage/badger"
)

func newManager(t *testing.T) (*Manager, *badger.Repositories) {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })
	return NewManager(repos.Users), repos
}

func addUser(t *testing.T, repos *badger.Repositories, user *core.User) *core.User {
	t.Helper()
	added, err := repos.Users.AddUser(context.Background(), user)
	require.NoError(t, err)
	return added
}

func TestManager_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("free user under limit", func(t *testing.T) {
		manager, repos := newManager(t)
		user := addUser(t, repos, &core.User{Email: "free@example.com", Tier: core.TierFree})

		allowed, err := manager.Allow(ctx, user.Id)
		require.NoError(t, err)
		assert.Equal(t, user.Id, allowed.Id)
	})

	t.Run("allow does not consume budget", func(t *testing.T) {
		manager, repos := newManager(t)
		user := addUser(t, repos, &core.User{Email: "free@example.com", Tier: core.TierFree})

		for i := 0; i < 5; i++ {
			_, err := manager.Allow(ctx, user.Id)
			require.NoError(t, err)
		}

		stored, err := repos.Users.GetUser(ctx, user.Id)
		require.NoError(t, err)
		assert.Equal(t, 0, stored.UsageCount)
	})

	t.Run("free user at limit denied", func(t *testing.T) {
		manager, repos := newManager(t)
		user := addUser(t, repos, &core.User{Email: "free@example.com", Tier: core.TierFree})
		user.UsageCount = user.UsageLimit
		_, err := repos.Users.UpdateUser(ctx, user)
		require.NoError(t, err)

		_, err = manager.Allow(ctx, user.Id)
		assert.ErrorIs(t, err, ErrQuotaExceeded)
	})

	t.Run("pro user exempt from limit", func(t *testing.T) {
		manager, repos := newManager(t)
		user := addUser(t, repos, &core.User{Email: "pro@example.com", Tier: core.TierPro})
		user.UsageCount = 1000
		_, err := repos.Users.UpdateUser(ctx, user)
		require.NoError(t, err)

		allowed, err := manager.Allow(ctx, user.Id)
		require.NoError(t, err)
		assert.Equal(t, 1000, allowed.UsageCount)
	})

	t.Run("unknown user", func(t *testing.T) {
		manager, _ := newManager(t)
		_, err := manager.Allow(ctx, 9999)
		assert.Error(t, err)
	})
}

func TestManager_Allow_NewDayResets(t *testing.T) {
	ctx := context.Background()
	manager, repos := newManager(t)
	user := addUser(t, repos, &core.User{Email: "free@example.com", Tier: core.TierFree})

	day1 := time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC)
	day2 := time.Date(2025, 6, 2, 0, 5, 0, 0, time.UTC)

	manager.now = func() time.Time { return day1 }
	_, err := manager.Allow(ctx, user.Id)
	require.NoError(t, err)

	// Exhaust today's budget.
	stored, err := repos.Users.GetUser(ctx, user.Id)
	require.NoError(t, err)
	stored.UsageCount = stored.UsageLimit
	_, err = repos.Users.UpdateUser(ctx, stored)
	require.NoError(t, err)

	_, err = manager.Allow(ctx, user.Id)
	require.ErrorIs(t, err, ErrQuotaExceeded)

	// A few minutes later, but a new UTC day.
	manager.now = func() time.Time { return day2 }
	allowed, err := manager.Allow(ctx, user.Id)
	require.NoError(t, err)
	assert.Equal(t, 0, allowed.UsageCount)
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		name string
		user *core.User
		want int
	}{
		{"pro unlimited", &core.User{Tier: core.TierPro, UsageCount: 500, UsageLimit: 10}, -1},
		{"free untouched", &core.User{Tier: core.TierFree, UsageCount: 0, UsageLimit: 10}, 10},
		{"free partial", &core.User{Tier: core.TierFree, UsageCount: 7, UsageLimit: 10}, 3},
		{"free at limit", &core.User{Tier: core.TierFree, UsageCount: 10, UsageLimit: 10}, 0},
		{"free over limit", &core.User{Tier: core.TierFree, UsageCount: 12, UsageLimit: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Remaining(tt.user))
		})
	}
}
