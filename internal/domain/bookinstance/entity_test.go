package bookinstance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewBookInstance_Defaults(t *testing.T) {
	before := time.Now()
	inst := NewBookInstance("b1", "Gollancz, 2011", "", nil)

	assert.Equal(t, StatusMaintenance, inst.Status)
	assert.False(t, inst.DueBack.Before(before), "应还日期默认为创建时间")
}

func TestNewBookInstance_Explicit(t *testing.T) {
	due := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	inst := NewBookInstance("b1", "imprint", StatusLoaned, &due)

	assert.Equal(t, StatusLoaned, inst.Status)
	assert.Equal(t, "March 1st, 2026", DueBackFormatted(inst))
	assert.Equal(t, "2026-03-01", DueBackISO(inst))
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, Status("Lost").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestDueBackFormatted_Zero(t *testing.T) {
	assert.Empty(t, DueBackFormatted(&BookInstance{}))
	assert.Empty(t, DueBackISO(&BookInstance{}))
}
