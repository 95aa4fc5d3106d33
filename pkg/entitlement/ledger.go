package entitlement

import (
	"math"
	"time"

	"property-rental-be/internal/entity"
)

const (
	Day                 = 24 * time.Hour
	DefaultDurationDays = 30
)

// Window is the inclusive validity window of a ledger entry.
type Window struct {
	Start time.Time
	End   time.Time
}

// durationOrDefault returns days, or fallback when the plan carries none.
func durationOrDefault(days, fallback int) int {
	if days > 0 {
		return days
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultDurationDays
}

// SubscriptionWindow is the window of a fresh subscription starting at start.
func SubscriptionWindow(start time.Time, plan *entity.SubscriptionPlan, fallbackDays int) Window {
	days := durationOrDefault(plan.DurationDays, fallbackDays)
	return Window{Start: start, End: start.Add(time.Duration(days) * Day)}
}

// RemainingDays is the number of started days left before end, rounded up.
// It is zero once end is not in the future.
func RemainingDays(end, now time.Time) int {
	if !end.After(now) {
		return 0
	}
	return int(math.Ceil(float64(end.Sub(now)) / float64(Day)))
}

// UpgradeTerms describes an entry after switching to a new plan.
type UpgradeTerms struct {
	RemainingQuota int
	Window         Window
}

// ComputeUpgrade appends the unused days of the old window to the new plan
// and optionally carries the unused quota over.
func ComputeUpgrade(entry *entity.UserSubscription, plan *entity.SubscriptionPlan, inheritRemaining bool, now time.Time, fallbackDays int) UpgradeTerms {
	quota := plan.Quota
	if inheritRemaining {
		quota += entry.RemainingQuota
	}
	if quota < 0 {
		quota = 0
	}

	days := durationOrDefault(plan.DurationDays, fallbackDays) + RemainingDays(entry.EndDate, now)
	return UpgradeTerms{
		RemainingQuota: quota,
		Window:         Window{Start: now, End: now.Add(time.Duration(days) * Day)},
	}
}

// Recompute refreshes the derived access level and active flag of entry.
func Recompute(entry *entity.UserSubscription, now time.Time) {
	entry.AccessLevel = entity.ComputeAccessLevel(entry.RemainingQuota)
	entry.Active = entry.ComputeActive(now)
}
