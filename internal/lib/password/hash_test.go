package password

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "regular password",
			password: "password123",
		},
		{
			name:     "password with special chars",
			password: "p@ssw0rd!@#$%^&*()",
		},
		{
			name:     "minimal length",
			password: "abcdef",
		},
		{
			name:     "too short",
			password: "abc",
			wantErr:  ErrTooShort,
		},
		{
			name:     "empty",
			password: "",
			wantErr:  ErrTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := GetHash(tt.password)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Empty(t, hash)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.NoError(t, CompareHash(hash, tt.password))
		})
	}
}

func TestCompareHash(t *testing.T) {
	hash, err := GetHash("password123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  bool
	}{
		{name: "match", hash: hash, password: "password123"},
		{name: "mismatch", hash: hash, password: "password124", wantErr: true},
		{name: "empty hash for google account", hash: "", password: "anything", wantErr: true},
		{name: "garbage hash", hash: "not-a-bcrypt-hash", password: "password123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(tt.hash, tt.password)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("empty hash wraps mismatch", func(t *testing.T) {
		err := CompareHash("", "x")
		assert.ErrorIs(t, err, bcrypt.ErrMismatchedHashAndPassword)
	})
}
