package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("identity: invalid token")

// Claims is the portal's session token payload.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

// Parser verifies HMAC-signed portal tokens.
type Parser struct {
	secret []byte
}

// NewParser returns nil when secret is empty; a nil Parser yields no identity.
func NewParser(secret string) *Parser {
	if strings.TrimSpace(secret) == "" {
		return nil
	}
	return &Parser{secret: []byte(secret)}
}

// Parse verifies tokenString and returns the identity it carries.
func (p *Parser) Parse(tokenString string) (Identity, error) {
	if p == nil {
		return Identity{}, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return Identity{
		Name:  strings.TrimSpace(claims.Name),
		Email: strings.TrimSpace(claims.Email),
		Phone: strings.TrimSpace(claims.Phone),
	}, nil
}
