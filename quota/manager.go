// Package quota enforces the daily per-user query budget.
//
// The budget resets once per UTC calendar day. The reset is evaluated and
// persisted before the budget check, so a user who exhausted yesterday's
// budget is allowed again on the first query of a new day. Pro-tier users
// are exempt from the limit check entirely; their usage is still counted
// for reporting.
//
// Allow never increments the counter. Counting happens when the answer is
// persisted, atomically with the conversation turn, so a query that fails
// before generating an answer costs nothing.
package quota

import (
	"context"
	"log/slog"
	"time"

	"github.com/minbar-ai/minbar/core"
	"github.com/minbar-ai/minbar/storage"
)

// Manager evaluates a user's remaining daily budget against the persisted
// quota state.
type Manager struct {
	users  storage.UserRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewManager creates a quota manager over the given user repository.
func NewManager(users storage.UserRepository) *Manager {
	return &Manager{
		users:  users,
		logger: slog.Default().With("component", "quota"),
		now:    time.Now,
	}
}

// Allow resets the user's usage count if a new UTC day has started, then
// checks the budget. Returns the user's post-reset state when the query
// may proceed, or ErrQuotaExceeded when the budget is exhausted.
// Storage failures propagate as-is.
func (m *Manager) Allow(ctx context.Context, userID core.ID) (*core.User, error) {
	user, err := m.users.ResetDailyUsage(ctx, userID, m.now())
	if err != nil {
		return nil, err
	}

	if user.Tier == core.TierPro {
		return user, nil
	}
	if user.UsageCount < user.UsageLimit {
		return user, nil
	}

	m.logger.Info("query denied, daily limit reached",
		"user_id", user.Id,
		"usage_count", user.UsageCount,
		"usage_limit", user.UsageLimit)
	return nil, ErrQuotaExceeded
}

// Remaining reports how many queries the user may still run today.
// Pro-tier users always report a negative value, meaning unlimited.
func Remaining(user *core.User) int {
	if user.Tier == core.TierPro {
		return -1
	}
	if user.UsageCount >= user.UsageLimit {
		return 0
	}
	return user.UsageLimit - user.UsageCount
}
