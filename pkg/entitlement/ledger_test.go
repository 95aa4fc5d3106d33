package entitlement

import (
	"testing"
	"time"

	"property-rental-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRemainingDays(t *testing.T) {
	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"past", baseTime.Add(-time.Hour), 0},
		{"now", baseTime, 0},
		{"one hour", baseTime.Add(time.Hour), 1},
		{"exactly ten days", baseTime.Add(10 * Day), 10},
		{"ten days and a minute", baseTime.Add(10*Day + time.Minute), 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemainingDays(tt.end, baseTime))
		})
	}
}

func TestSubscriptionWindow_DefaultsDuration(t *testing.T) {
	w := SubscriptionWindow(baseTime, &entity.SubscriptionPlan{DurationDays: 0}, 0)
	assert.Equal(t, baseTime.Add(30*Day), w.End)

	w = SubscriptionWindow(baseTime, &entity.SubscriptionPlan{DurationDays: 7}, 30)
	assert.Equal(t, baseTime, w.Start)
	assert.Equal(t, baseTime.Add(7*Day), w.End)

	w = SubscriptionWindow(baseTime, &entity.SubscriptionPlan{}, 45)
	assert.Equal(t, baseTime.Add(45*Day), w.End)
}

func TestComputeUpgrade(t *testing.T) {
	entry := &entity.UserSubscription{
		RemainingQuota: 2,
		StartDate:      baseTime.Add(-20 * Day),
		EndDate:        baseTime.Add(10 * Day),
	}
	plan := &entity.SubscriptionPlan{Quota: 5, DurationDays: 30}

	t.Run("inherit remaining", func(t *testing.T) {
		terms := ComputeUpgrade(entry, plan, true, baseTime, 30)
		assert.Equal(t, 7, terms.RemainingQuota)
		assert.Equal(t, baseTime, terms.Window.Start)
		assert.Equal(t, baseTime.Add(40*Day), terms.Window.End)
	})

	t.Run("discard remaining", func(t *testing.T) {
		terms := ComputeUpgrade(entry, plan, false, baseTime, 30)
		assert.Equal(t, 5, terms.RemainingQuota)
	})

	t.Run("expired entry adds no days", func(t *testing.T) {
		expired := &entity.UserSubscription{RemainingQuota: 1, EndDate: baseTime.Add(-Day)}
		terms := ComputeUpgrade(expired, plan, true, baseTime, 30)
		assert.Equal(t, 6, terms.RemainingQuota)
		assert.Equal(t, baseTime.Add(30*Day), terms.Window.End)
	})
}

func TestRecompute(t *testing.T) {
	entry := &entity.UserSubscription{
		StartDate:      baseTime.Add(-Day),
		EndDate:        baseTime.Add(Day),
		RemainingQuota: 11,
	}

	Recompute(entry, baseTime)
	assert.Equal(t, entity.AccessLevelFull, entry.AccessLevel)
	assert.True(t, entry.Active)

	entry.RemainingQuota = 10
	Recompute(entry, baseTime)
	assert.Equal(t, entity.AccessLevelLimited, entry.AccessLevel)

	entry.RemainingQuota = 0
	Recompute(entry, baseTime)
	assert.Equal(t, entity.AccessLevelNone, entry.AccessLevel)
	assert.False(t, entry.Active)

	entry.RemainingQuota = 4
	Recompute(entry, baseTime.Add(2*Day))
	assert.False(t, entry.Active)
}
