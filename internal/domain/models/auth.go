package models

import "github.com/golang-jwt/jwt/v5"

// Claims represents the JWT claims issued by the external identity
// provider. Only the subject (the provider's stable user ID) and email
// are consumed; everything else rides along in RegisteredClaims.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// UserID returns the external identity subject claim.
// This is the primary identifier for the authenticated user.
func (c *Claims) UserID() string {
	return c.Subject
}
