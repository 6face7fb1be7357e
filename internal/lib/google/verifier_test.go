package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testClientID = "jam-test.apps.googleusercontent.com"

type jwksServer struct {
	srv   *httptest.Server
	key   *rsa.PrivateKey
	hits  atomic.Int32
	keyID string
}

func newJWKSServer(t *testing.T) *jwksServer {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	s := &jwksServer{key: key, keyID: "kid-1"}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.hits.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kid": s.keyID,
				"kty": "RSA",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
			}},
		})
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *jwksServer) sign(t *testing.T, kid string, claims Claims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = kid
	signed, err := token.SignedString(s.key)
	require.NoError(t, err)
	return signed
}

func validClaims() Claims {
	return Claims{
		Email:         "alice@gmail.com",
		EmailVerified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://accounts.google.com",
			Subject:   "1234567890",
			Audience:  jwt.ClaimStrings{testClientID},
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestVerifier_Verify(t *testing.T) {
	s := newJWKSServer(t)
	v := NewVerifier(testClientID, s.srv.URL, s.srv.Client())

	identity, err := v.Verify(context.Background(), s.sign(t, s.keyID, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "1234567890", identity.Subject)
	assert.Equal(t, "alice@gmail.com", identity.Email)
	assert.True(t, identity.EmailVerified)

	_, err = v.Verify(context.Background(), s.sign(t, s.keyID, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(1), s.hits.Load(), "keys must be cached")
}

func TestVerifier_Rejects(t *testing.T) {
	s := newJWKSServer(t)

	tests := []struct {
		name   string
		kid    string
		mutate func(c *Claims)
	}{
		{name: "wrong audience", kid: "kid-1", mutate: func(c *Claims) { c.Audience = jwt.ClaimStrings{"other"} }},
		{name: "wrong issuer", kid: "kid-1", mutate: func(c *Claims) { c.Issuer = "https://evil.example.com" }},
		{name: "expired", kid: "kid-1", mutate: func(c *Claims) { c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour)) }},
		{name: "missing email", kid: "kid-1", mutate: func(c *Claims) { c.Email = "" }},
		{name: "unknown key", kid: "kid-404", mutate: func(_ *Claims) {}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerifier(testClientID, s.srv.URL, s.srv.Client())
			c := validClaims()
			tt.mutate(&c)
			identity, err := v.Verify(context.Background(), s.sign(t, tt.kid, c))
			assert.Error(t, err)
			assert.Nil(t, identity)
		})
	}
}

func TestVerifier_CertsUnavailable(t *testing.T) {
	s := newJWKSServer(t)
	token := s.sign(t, s.keyID, validClaims())

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer down.Close()

	v := NewVerifier(testClientID, down.URL, down.Client())
	_, err := v.Verify(context.Background(), token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestVerifier_UnknownKeyDoesNotRefetch(t *testing.T) {
	s := newJWKSServer(t)
	v := NewVerifier(testClientID, s.srv.URL, s.srv.Client())

	for range 3 {
		_, err := v.Verify(context.Background(), s.sign(t, "kid-404", validClaims()))
		require.ErrorIs(t, err, ErrUnknownKey)
	}
	assert.Equal(t, int32(1), s.hits.Load(), "unknown kid must not refetch keys within the interval")

	_, err := v.Verify(context.Background(), s.sign(t, s.keyID, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, int32(1), s.hits.Load())

	// После интервала ключи перечитываются, чтобы подхватить ротацию.
	v.minRefresh = 0
	_, err = v.Verify(context.Background(), s.sign(t, "kid-404", validClaims()))
	require.ErrorIs(t, err, ErrUnknownKey)
	assert.Equal(t, int32(2), s.hits.Load())
}
