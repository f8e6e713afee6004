// Package token encodes and verifies the two JWT kinds used for sessions:
// short-lived access tokens and long-lived refresh tokens. Each kind is
// signed with its own secret, so a token of one kind never verifies as the
// other.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskdeck/internal/apperr"
)

// Claims carries the subject user id alongside the registered claim set.
type Claims struct {
	jwt.RegisteredClaims
	UserID uint `json:"uid"`
}

type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewCodec(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration) *Codec {
	return &Codec{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (c *Codec) IssueAccess(userID uint) (string, error) {
	return c.issue(userID, c.accessSecret, c.accessTTL)
}

func (c *Codec) IssueRefresh(userID uint) (string, error) {
	return c.issue(userID, c.refreshSecret, c.refreshTTL)
}

func (c *Codec) issue(userID uint, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})
	return t.SignedString(secret)
}

// VerifyAccess checks signature and expiry of an access token.
func (c *Codec) VerifyAccess(tokenString string) (*Claims, error) {
	return verify(tokenString, c.accessSecret)
}

// VerifyRefresh checks signature and expiry of a refresh token.
func (c *Codec) VerifyRefresh(tokenString string) (*Claims, error) {
	return verify(tokenString, c.refreshSecret)
}

func verify(tokenString string, secret []byte) (*Claims, error) {
	if tokenString == "" {
		return nil, apperr.ErrUnauthenticated
	}

	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		// A token that expires at exactly now is already expired: jwt v5
		// requires exp strictly greater than the verification time.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.Wrap(apperr.CodeUnauthenticated, "token expired", err)
		}
		return nil, apperr.Wrap(apperr.CodeUnauthenticated, "invalid token signature", err)
	}
	if !t.Valid {
		return nil, apperr.ErrTokenInvalid
	}

	return claims, nil
}

// DecodeAccess checks the access token signature but not its expiry. Used
// when blacklisting: the remaining lifetime must be read off tokens that may
// already be past their exp.
func (c *Codec) DecodeAccess(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, apperr.ErrUnauthenticated
	}

	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.accessSecret, nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnauthenticated, "invalid token signature", err)
	}

	return claims, nil
}

// IsExpired reports whether the token kind expired relative to now.
func IsExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}
