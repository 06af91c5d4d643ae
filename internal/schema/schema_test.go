package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_CreateUser_Valid(t *testing.T) {
	t.Parallel()

	res := Check(CreateUserInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Gender:    "female",
		JobTitle:  "Analyst",
		Country:   "UK",
	})

	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestCheck_CreateUser_AccumulatesAllErrors(t *testing.T) {
	t.Parallel()

	res := Check(CreateUserInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Gender:    "female",
		JobTitle:  "Analyst",
	})

	require.False(t, res.Valid)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "country")
	assert.Contains(t, res.Errors[1], "email")
}

func TestCheck_UpdateUser(t *testing.T) {
	t.Parallel()

	blank := ""
	country := "Australia"

	tests := []struct {
		name      string
		input     UpdateUserInput
		wantValid bool
		wantField string
	}{
		{
			name:      "email plus one attribute",
			input:     UpdateUserInput{Email: "ada@example.com", Country: &country},
			wantValid: true,
		},
		{
			name:      "email alone",
			input:     UpdateUserInput{Email: "ada@example.com"},
			wantValid: true,
		},
		{
			name:      "missing email",
			input:     UpdateUserInput{Country: &country},
			wantField: "email",
		},
		{
			name:      "blank optional attribute",
			input:     UpdateUserInput{Email: "ada@example.com", FirstName: &blank},
			wantField: "firstName",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := Check(tt.input)
			if tt.wantValid {
				assert.True(t, res.Valid)
				return
			}
			require.False(t, res.Valid)
			assert.Contains(t, strings.Join(res.Errors, ","), tt.wantField)
		})
	}
}

func TestCheck_ListUsers(t *testing.T) {
	t.Parallel()

	zero := 0
	five := 5

	res := Check(ListUsersParams{})
	assert.True(t, res.Valid, "all parameters are optional")

	res = Check(ListUsersParams{Email: "a@b.com", Limit: &five})
	assert.True(t, res.Valid)

	res = Check(ListUsersParams{Limit: &zero})
	require.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "limit")
}

func TestCheck_DeleteUser_RequiresEmail(t *testing.T) {
	t.Parallel()

	res := Check(DeleteUserParams{})
	require.False(t, res.Valid)
	assert.Contains(t, res.Errors[0], "email")

	assert.True(t, Check(DeleteUserParams{Email: "ada@example.com"}).Valid)
}

func TestCheck_ExtraErrorsAreKept(t *testing.T) {
	t.Parallel()

	res := Check(DeleteUserParams{}, "unknown parameter: verbose")
	require.False(t, res.Valid)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, "unknown parameter: verbose", res.Errors[0])
}

func TestDecodeStrict(t *testing.T) {
	t.Parallel()

	var in CreateUserInput
	err := DecodeStrict([]byte(`{"firstName":"Ada","email":"ada@example.com"}`), &in)
	require.NoError(t, err)
	assert.Equal(t, "Ada", in.FirstName)

	err = DecodeStrict([]byte(`{"firstName":"Ada","nickname":"ace"}`), &in)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nickname")

	err = DecodeStrict(nil, &in)
	assert.NoError(t, err, "empty body decodes as empty object")
}

func TestUnknownParams(t *testing.T) {
	t.Parallel()

	unknown := UnknownParams([]string{"email", "verbose", "debug"}, DeleteUserParamNames)
	assert.Equal(t, []string{"unknown parameter: debug", "unknown parameter: verbose"}, unknown)

	assert.Empty(t, UnknownParams([]string{"email"}, DeleteUserParamNames))
}

func TestResult_ErrorMessage(t *testing.T) {
	t.Parallel()

	res := Result{Errors: []string{"email: cannot be blank", "limit: must be no less than 1"}}
	assert.Equal(t, "email: cannot be blank,limit: must be no less than 1", res.ErrorMessage())
}
