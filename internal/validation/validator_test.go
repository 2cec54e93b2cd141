package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/edupass/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_NoErrors(t *testing.T) {
	v := New().
		Required("name", "Ana").
		Required("email", "ana@escola.com").
		Email("email", "ana@escola.com").
		MaxLength("name", "Ana", 10)

	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Err())
}

func TestValidator_Required(t *testing.T) {
	for _, value := range []string{"", "   ", "\t\n"} {
		v := New().Required("name", value)
		require.True(t, v.HasErrors(), "value %q", value)
	}
}

func TestValidator_Email(t *testing.T) {
	valid := []string{"ana@escola.com", "ana.s+edu@escola.com.br", "a@b", ""}
	invalid := []string{
		"ana", "@escola.com", "ana@", "ana @escola.com",
		"Ana <ana@escola.com>", "<ana@escola.com>", " ana@escola.com",
	}

	for _, e := range valid {
		assert.False(t, New().Email("email", e).HasErrors(), "expected %q to pass", e)
	}
	for _, e := range invalid {
		assert.True(t, New().Email("email", e).HasErrors(), "expected %q to fail", e)
	}
}

func TestValidator_MaxLength(t *testing.T) {
	assert.False(t, New().MaxLength("login", strings.Repeat("a", 5), 5).HasErrors())
	assert.True(t, New().MaxLength("login", strings.Repeat("a", 6), 5).HasErrors())
}

func TestValidator_ErrMatchesSentinelAndListsFields(t *testing.T) {
	err := New().
		Required("name", "").
		Required("email", "").
		Required("password", "x").
		Err()

	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrValidation))
	assert.Equal(t, "name: is required; email: is required", err.Error())

	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, vErr.Fields, 2)
}
