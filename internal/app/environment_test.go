package app

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/yolonews/localfeed/internal/domain"
)

func testContext() context.Context {
	return domain.ContextWithLogger(context.Background(), slog.New(slog.DiscardHandler))
}

func TestMustGetEnvAsStrings(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  []string
	}{
		{name: "empty", value: "", want: nil},
		{name: "single", value: "session_cookie", want: []string{"session_cookie"}},
		{name: "trims_and_skips_blanks", value: " session_cookie, ,bearer ", want: []string{"session_cookie", "bearer"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("TEST_STRINGS", tc.value)
			assert.Equal(t, tc.want, MustGetEnvAsStrings(testContext(), "TEST_STRINGS"))
		})
	}
}

func TestMustGetEnv_Parsing(t *testing.T) {
	t.Setenv("TEST_INT", "8080")
	t.Setenv("TEST_BOOL", "TRUE")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_LOCATION", "UTC")

	ctx := testContext()
	assert.Equal(t, 8080, MustGetEnvAsInt(ctx, "TEST_INT"))
	assert.True(t, MustGetEnvAsBoolean(ctx, "TEST_BOOL"))
	assert.Equal(t, 90*time.Second, MustGetEnvAsDuration(ctx, "TEST_DURATION"))
	assert.Equal(t, time.UTC, MustGetEnvAsLocation(ctx, "TEST_LOCATION"))
}

func TestMustGetEnv_Panics(t *testing.T) {
	t.Setenv("TEST_BAD_INT", "eighty")
	t.Setenv("TEST_BAD_BOOL", "yes")
	t.Setenv("TEST_BAD_DURATION", "soon")

	ctx := testContext()
	assert.Panics(t, func() { MustGetEnvAsString(ctx, "TEST_DEFINITELY_UNSET_VARIABLE") })
	assert.Panics(t, func() { MustGetEnvAsInt(ctx, "TEST_BAD_INT") })
	assert.Panics(t, func() { MustGetEnvAsBoolean(ctx, "TEST_BAD_BOOL") })
	assert.Panics(t, func() { MustGetEnvAsDuration(ctx, "TEST_BAD_DURATION") })
}

func TestGetEnvAsStringOr(t *testing.T) {
	t.Setenv("TEST_SET", "value")
	t.Setenv("TEST_EMPTY", "")

	assert.Equal(t, "value", GetEnvAsStringOr("TEST_SET", "fallback"))
	assert.Equal(t, "fallback", GetEnvAsStringOr("TEST_EMPTY", "fallback"))
}
