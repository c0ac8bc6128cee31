package model

import "time"

// RevokedToken marks a jti as unusable until the token would have expired anyway.
type RevokedToken struct {
	JTI       string    `json:"jti"`
	ExpiresAt time.Time `json:"expires_at"`
	RevokedAt time.Time `json:"revoked_at"`
}
