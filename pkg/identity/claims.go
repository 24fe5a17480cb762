// Package identity is the client side of the external identity provider.
// The provider owns sign-up, sign-in and token issuance; this package only
// fetches and verifies the session material a request presents.
package identity

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the access-token claims structure issued by the identity
// provider. RegisteredClaims carries the standard fields (sub, iss, exp).
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email,omitempty"`
	FullName string `json:"name,omitempty"`
}
