package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFields(t *testing.T) {
	f := DefaultFields()

	require.NotNil(t, f.ShiftStart)
	assert.Equal(t, "09:00", *f.ShiftStart)
	assert.Equal(t, "18:00", *f.ShiftEnd)
	assert.Equal(t, DefaultTimezone, *f.Timezone)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, *f.WorkingDays)

	(*f.WorkingDays)[0] = 0
	assert.Equal(t, 1, DefaultWorkingDays[0])
}

func TestSetDefaultTimezone(t *testing.T) {
	t.Cleanup(func() { SetDefaultTimezone(DefaultTimezone) })

	SetDefaultTimezone("UTC")
	assert.Equal(t, "UTC", *DefaultFields().Timezone)

	SetDefaultTimezone("")
	assert.Equal(t, "UTC", *DefaultFields().Timezone)
}
