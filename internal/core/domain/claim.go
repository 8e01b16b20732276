package domain

import "time"

// Claim is the decoded payload of a signed token.
type Claim struct {
	TokenID   string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Image is a decoded, sniffed image payload ready to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}
