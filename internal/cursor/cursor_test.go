package cursor

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userdir/userdir-server/internal/model"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  model.Key
	}{
		{name: "primary key", key: model.Key{"email": "ada@example.com"}},
		{name: "index key", key: model.Key{"itemType": "User", "email": "ada@example.com"}},
		{name: "unicode value", key: model.Key{"email": "žofia@example.com"}},
		{name: "value with separators", key: model.Key{"email": "a+b/c=d@example.com"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			token := Encode(tt.key)
			require.NotEmpty(t, token)

			got, err := Decode(token)
			require.NoError(t, err)
			assert.Equal(t, tt.key, got)
		})
	}
}

func TestEncode_EmptyKey(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Encode(nil))
	assert.Empty(t, Encode(model.Key{}))
}

func TestDecode_EmptyToken(t *testing.T) {
	t.Parallel()

	key, err := Decode("")
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestDecode_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{name: "not base64", token: "%%%not-base64%%%"},
		{name: "base64 of non-json", token: base64.URLEncoding.EncodeToString([]byte("not json"))},
		{name: "base64 of wrong shape", token: base64.URLEncoding.EncodeToString([]byte(`["email"]`))},
		{name: "base64 of empty object", token: base64.URLEncoding.EncodeToString([]byte(`{}`))},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(tt.token)
			assert.ErrorIs(t, err, model.ErrMalformedCursor)
		})
	}
}
