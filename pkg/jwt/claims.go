package jwt

import "time"

// StandardClaims holds the RFC 7519 registered claims.
// Embed it in a custom struct to add application-specific claims.
type StandardClaims struct {
	ID        string `json:"jti,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Issuer    string `json:"iss,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
}

// Valid checks the temporal claims against the current time.
// Zero-valued claims are not validated.
func (c StandardClaims) Valid() error {
	now := time.Now().Unix()

	if c.ExpiresAt != 0 && now > c.ExpiresAt {
		return ErrExpiredToken
	}
	if c.NotBefore != 0 && now < c.NotBefore {
		return ErrInvalidToken
	}

	return nil
}

// temporalValidator is implemented by claims that carry temporal constraints.
// StandardClaims implements it; custom claim structs inherit via embedding.
type temporalValidator interface {
	Valid() error
}
