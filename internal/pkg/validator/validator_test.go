package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2025-03-10")
	require.True(t, ok)
	assert.Equal(t, 10, d.Day())

	for _, bad := range []string{"", "2025-3-10", "10/03/2025", "2025-02-30"} {
		_, ok := IsValidDate(bad)
		assert.False(t, ok, bad)
	}
}

func TestIsInSlice(t *testing.T) {
	assert.True(t, IsInSlice("b", []string{"a", "b"}))
	assert.False(t, IsInSlice("c", []string{"a", "b"}))
	assert.False(t, IsInSlice("a", nil))
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.NoError(t, errs.Err())

	errs.Add("entries[0].task", "task is required")
	errs.Add("month", "month must be between %d and %d", 1, 12)

	err := errs.Err()
	require.Error(t, err)
	assert.Equal(t, "entries[0].task: task is required; month: month must be between 1 and 12", err.Error())

	var target ValidationErrors
	require.True(t, errors.As(err, &target))
	assert.Equal(t, map[string]string{
		"entries[0].task": "task is required",
		"month":           "month must be between 1 and 12",
	}, target.ToMap())
}
