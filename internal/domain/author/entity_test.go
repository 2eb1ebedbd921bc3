package author

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestName(t *testing.T) {
	assert.Equal(t, "Rothfuss,Patrick", Name(&Author{FirstName: "Patrick", FamilyName: "Rothfuss"}))
	assert.Equal(t, "", Name(&Author{FirstName: "Patrick"}))
	assert.Equal(t, "", Name(&Author{FamilyName: "Rothfuss"}))
}

func TestLifespan(t *testing.T) {
	tests := []struct {
		name  string
		birth *time.Time
		death *time.Time
		want  string
	}{
		{"生卒年齐全", date(1920, time.January, 2), date(1992, time.April, 6), "Jan 2, 1920 - Apr 6, 1992"},
		{"仍在世", date(1973, time.June, 6), nil, "Jun 6, 1973 - "},
		{"日期都未知", nil, nil, " - "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Author{DateOfBirth: tt.birth, DateOfDeath: tt.death}
			assert.Equal(t, tt.want, Lifespan(a))
		})
	}
}

func TestFormattedDates(t *testing.T) {
	t.Run("有日期时格式化", func(t *testing.T) {
		a := &Author{DateOfBirth: date(1920, time.January, 2), DateOfDeath: date(1992, time.April, 11)}

		assert.Equal(t, "January 2nd, 1920", DateOfBirthFormatted(a))
		assert.Equal(t, "April 11th, 1992", DateOfDeathFormatted(a))
		assert.Equal(t, "1920-01-02", DateOfBirthISO(a))
		assert.Equal(t, "1992-04-11", DateOfDeathISO(a))
	})

	t.Run("无日期时为空串", func(t *testing.T) {
		a := &Author{}

		assert.Empty(t, DateOfBirthFormatted(a))
		assert.Empty(t, DateOfDeathFormatted(a))
		assert.Empty(t, DateOfBirthISO(a))
		assert.Empty(t, DateOfDeathISO(a))
	})
}

func TestAuthor_Replace(t *testing.T) {
	a := NewAuthor("Isaac", "Asimov", date(1920, time.January, 2), date(1992, time.April, 6))
	a.ID = "a1"

	a.Replace(&Author{FirstName: "Ike", FamilyName: "Asimov"})

	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, "Ike", a.FirstName)
	assert.Nil(t, a.DateOfBirth, "全量替换不保留旧日期")
	assert.Nil(t, a.DateOfDeath)
}
