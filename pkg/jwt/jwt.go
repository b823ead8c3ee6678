package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrUnexpectedSigningMethod = errors.New("unexpected signing method")
	ErrClaimNotFound           = errors.New("claim not found")
)

type JWT struct {
	now    func() time.Time
	secret []byte
	ttl    time.Duration
}

type option func(*JWT)

// TTL adds an exp claim to created tokens.
func TTL(ttl time.Duration) option {
	return func(j *JWT) {
		j.ttl = ttl
	}
}

func New(secret []byte, options ...option) *JWT {
	j := &JWT{
		secret: secret,
		now:    time.Now,
	}
	for _, opt := range options {
		opt(j)
	}
	return j
}

func (j *JWT) Create(key, value string) (string, error) {
	claims := jwt.MapClaims{
		key:   value,
		"iat": j.now().Unix(),
	}
	if j.ttl > 0 {
		claims["exp"] = j.now().Add(j.ttl).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed sign token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and returns the string claim stored under key.
func (j *JWT) Verify(signedToken, key string) (string, bool, error) {
	token, err := jwt.Parse(signedToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedSigningMethod, t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", false, nil
	}

	raw, ok := claims[key]
	if !ok {
		return "", false, fmt.Errorf("%w: %s", ErrClaimNotFound, key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", false, fmt.Errorf("%w: %s is not a string", ErrClaimNotFound, key)
	}

	return value, true, nil
}
