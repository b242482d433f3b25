package shared_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"leadtime/shared"
	"leadtime/shared/failure"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{name: "midnight", value: "00:00", want: 0},
		{name: "morning slot", value: "09:30", want: 570},
		{name: "last minute of the day", value: "23:59", want: 1439},
		{name: "missing minutes", value: "09", wantErr: true},
		{name: "out of range hour", value: "25:00", wantErr: true},
		{name: "not a clock", value: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := shared.ParseClock(tt.value)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", shared.FormatClock(0))
	assert.Equal(t, "09:05", shared.FormatClock(545))
	assert.Equal(t, "23:59", shared.FormatClock(1439))
}

func TestFormatClock_RoundTripsParseClock(t *testing.T) {
	for _, value := range []string{"00:00", "08:15", "12:00", "17:45", "23:59"} {
		minutes, err := shared.ParseClock(value)

		assert.NoError(t, err)
		assert.Equal(t, value, shared.FormatClock(minutes))
	}
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "schedule:rules:1", shared.BuildCacheKey("schedule:rules", "1"))
	assert.Equal(t, "limiter:1.2.3.4:agent", shared.BuildCacheKey("limiter", "1.2.3.4", "agent"))
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{name: "empty result set", total: 0, limit: 10, want: 1},
		{name: "exact pages", total: 20, limit: 10, want: 2},
		{name: "partial last page", total: 21, limit: 10, want: 3},
		{name: "zero limit", total: 5, limit: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.CalculateTotalPage(tt.total, tt.limit))
		})
	}
}

func TestConvertStringToBool(t *testing.T) {
	truthy := shared.ConvertStringToBool("true")
	if assert.NotNil(t, truthy) {
		assert.True(t, *truthy)
	}

	falsy := shared.ConvertStringToBool("false")
	if assert.NotNil(t, falsy) {
		assert.False(t, *falsy)
	}

	assert.Nil(t, shared.ConvertStringToBool(""))
	assert.Nil(t, shared.ConvertStringToBool("maybe"))
}
