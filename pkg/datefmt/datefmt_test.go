package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLong(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(1920, time.January, 2, 0, 0, 0, 0, time.UTC), "January 2nd, 1920"},
		{time.Date(1992, time.April, 11, 0, 0, 0, 0, time.UTC), "April 11th, 1992"},
		{time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC), "March 1st, 2026"},
		{time.Date(2026, time.May, 23, 0, 0, 0, 0, time.UTC), "May 23rd, 2026"},
		{time.Time{}, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Long(tt.in))
	}
}

func TestOrdinal(t *testing.T) {
	cases := map[int]string{1: "st", 2: "nd", 3: "rd", 4: "th", 11: "th", 12: "th", 13: "th", 21: "st", 22: "nd", 23: "rd", 31: "st"}
	for day, want := range cases {
		assert.Equal(t, want, Ordinal(day), "day %d", day)
	}
}
