package utils // package utils provides helpers for token creation and hashing

import (
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT access token along with its
// expiry.  Tokens carry everything the audit trail needs about the
// actor (id, display name, role and home store) so handlers never have
// to re-query the users table per request.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a staff account.
// Claims: subject (sub) is the user id, name is the display name used
// in audit entries, role gates the approval endpoints, store is the
// account's home store, plus standard exp/iat.
func NewAccessToken(secret, userID, name, role, storeID string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"name":  name,
		"role":  role,
		"store": storeID,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
