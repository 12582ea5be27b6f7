package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Confirm  string `json:"confirmPassword" validate:"eqfield=Password"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(signup{Email: "a@b.co", Password: "longenough", Confirm: "longenough"}))

	err := Validate(signup{Email: "nope", Password: "short", Confirm: "other", Role: "root"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.ElementsMatch(t, []FieldError{
		{Path: "email", Message: "must be a valid email address"},
		{Path: "password", Message: "must be at least 8 characters"},
		{Path: "confirmPassword", Message: "does not match Password"},
		{Path: "role", Message: "must be one of: user admin"},
	}, verr.Fields)
}
