package timefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "0 мин. 30 сек."},
		{4*time.Minute + 30*time.Second, "4 мин. 30 сек."},
		{3*time.Hour + 15*time.Minute, "3 ч. 15 мин."},
		{51 * time.Hour, "2 дн. 3 ч."},
		{-time.Minute, "0 мин. 0 сек."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Duration(tt.d))
	}
}

func TestAge(t *testing.T) {
	from := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		elapsed time.Duration
		want    string
	}{
		{45 * time.Second, "0 мин."},
		{20 * time.Minute, "20 мин."},
		{90 * time.Minute, "1 ч. 30 мин."},
		{49 * time.Hour, "2 дн. 1 ч."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Age(from, from.Add(tt.elapsed)))
	}
}
