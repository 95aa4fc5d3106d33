package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DEFAULT_PLAN_DURATION_DAYS", "")
	t.Setenv("OTEL_ENABLED", "")

	cfg := Load()

	assert.Equal(t, 30, cfg.Catalog.DefaultPlanDurationDays)
	assert.Equal(t, 300, cfg.Catalog.PlanCacheTTLSeconds)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DEFAULT_PLAN_DURATION_DAYS", "45")
	t.Setenv("PROPERTY_MAX_PAGE_SIZE", "50")
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("GO_ENV", "production")

	cfg := Load()

	assert.Equal(t, 45, cfg.Catalog.DefaultPlanDurationDays)
	assert.Equal(t, 50, cfg.Catalog.PropertyMaxPageSize)
	assert.True(t, cfg.Tracing.Enabled)
	assert.True(t, cfg.App.IsProduction())
}

func TestGetEnvAsInt_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}
