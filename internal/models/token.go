package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims carries the identity encoded in an access token. The ID claim
// (jti) doubles as the server-side session key.
type JWTClaims struct {
	UserID   string   `json:"uid"`
	Username string   `json:"username"`
	FullName string   `json:"name"`
	Role     UserRole `json:"role"`
	jwt.RegisteredClaims
}
