package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/sliceworks/pizzeria-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a staff JWT.
type AccessTokenPayload struct {
	Subject string
	Role    enums.StaffRole
}

// AccessTokenClaims represents the typed JWT issued to staff clients.
type AccessTokenClaims struct {
	Role enums.StaffRole `json:"role"`
	jwt.RegisteredClaims
}
