package crypto

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/cayiba/cayiba-admin/internal/model"
)

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrMalformedToken = errors.New("malformed token")
)

const issuer = "cayiba"

// Claims is the payload of a Cayiba admin token. The user object is
// optional; older tokens only carry the discrete fields.
type Claims struct {
	jwt.RegisteredClaims
	UserID ClaimString `json:"id,omitempty"`
	Email  string      `json:"email,omitempty"`
	Name   string      `json:"name,omitempty"`
	User   *TokenUser  `json:"user,omitempty"`
}

// TokenUser is the user object embedded in a token. Its id may be encoded
// as a string or a number.
type TokenUser struct {
	ID    ClaimString `json:"id,omitempty"`
	Email string      `json:"email"`
	Name  string      `json:"name,omitempty"`
}

// Expired reports whether the expiry claim is before now. A token without an
// expiry claim never expires.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return c.ExpiresAt.Time.Before(now)
}

// Identity returns the user carried by the token, preferring the embedded
// user object over the discrete claims.
func (c *Claims) Identity() *model.User {
	if c.User != nil && (c.User.Email != "" || c.User.ID != "") {
		return &model.User{ID: string(c.User.ID), Email: c.User.Email, Name: c.User.Name}
	}
	id := string(c.UserID)
	if id == "" {
		id = c.Subject
	}
	return &model.User{ID: id, Email: c.Email, Name: c.Name}
}

// DecodeClaims reads the claims of a token WITHOUT verifying its signature.
// The console only uses them to restore the UI session; the API authorizes
// every request itself.
func DecodeClaims(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// GenerateToken issues a signed token for the given admin.
func GenerateToken(user model.User, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: ClaimString(user.ID),
		Email:  user.Email,
		Name:   user.Name,
		User:   &TokenUser{ID: ClaimString(user.ID), Email: user.Email, Name: user.Name},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ValidateToken parses and verifies a signed token.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ClaimString accepts either a JSON string or a JSON number.
type ClaimString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *ClaimString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = ClaimString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(b, &num); err != nil {
		return err
	}
	*s = ClaimString(num.String())
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s ClaimString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}
