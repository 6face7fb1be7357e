// Package google проверяет ID-токены Google Sign-In.
//
// Клиент проходит OAuth-согласие у провайдера сам и передаёт нам полученный
// id_token. Мы проверяем подпись RS256 по опубликованному набору ключей (JWKS),
// издателя, аудиторию (client id приложения) и срок действия.
package google

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultCertsURL - адрес JWKS Google.
const DefaultCertsURL = "https://www.googleapis.com/oauth2/v3/certs"

var validIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// ErrUnknownKey возвращается, если kid токена отсутствует в наборе ключей.
var ErrUnknownKey = errors.New("google: unknown signing key")

// Identity - проверенные данные пользователя из ID-токена.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
}

// Claims - поля ID-токена Google, которые нам нужны.
type Claims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// Verifier проверяет ID-токены и кэширует ключи в памяти.
type Verifier struct {
	clientID   string
	certsURL   string
	client     *http.Client
	ttl        time.Duration
	// Минимальный интервал между загрузками ключей из-за неизвестного kid.
	minRefresh time.Duration

	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

// NewVerifier создаёт Verifier для client id приложения.
func NewVerifier(clientID, certsURL string, client *http.Client) *Verifier {
	if certsURL == "" {
		certsURL = DefaultCertsURL
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Verifier{
		clientID:   clientID,
		certsURL:   certsURL,
		client:     client,
		ttl:        time.Hour,
		minRefresh: time.Minute,
		keys:       map[string]*rsa.PublicKey{},
	}
}

// Verify проверяет токен и возвращает личность пользователя.
func (v *Verifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	const op = "google.Verify"

	token, err := jwt.ParseWithClaims(idToken, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return v.key(ctx, kid)
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithAudience(v.clientID),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if !validIssuers[claims.Issuer] {
		return nil, fmt.Errorf("%s: unexpected issuer %q", op, claims.Issuer)
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%s: subject or email missing", op)
	}
	return &Identity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}, nil
}

func (v *Verifier) key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	v.mu.RLock()
	k, ok := v.keys[kid]
	age := time.Since(v.fetchedAt)
	v.mu.RUnlock()
	if ok && age < v.ttl {
		return k, nil
	}
	if !ok && age < v.minRefresh {
		return nil, ErrUnknownKey
	}

	if err := v.refresh(ctx); err != nil {
		return nil, err
	}

	v.mu.RLock()
	defer v.mu.RUnlock()
	if k, ok = v.keys[kid]; !ok {
		return nil, ErrUnknownKey
	}
	return k, nil
}

func (v *Verifier) refresh(ctx context.Context) error {
	const op = "google.refresh"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}

	var set struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := k.publicKey()
		if err != nil {
			return fmt.Errorf("%s: key %s: %w", op, k.Kid, err)
		}
		keys[k.Kid] = pub
	}

	v.mu.Lock()
	v.keys = keys
	v.fetchedAt = time.Now()
	v.mu.Unlock()
	return nil
}

func (k jwk) publicKey() (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}
