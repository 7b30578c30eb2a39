package auth

import (
	"time"

	"project-tracker-api/internal/config"
	"project-tracker-api/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Claims represents the JWT claims
type Claims struct {
	EmployeeID string      `json:"employee_id"`
	Username   string      `json:"username"`
	Name       string      `json:"name"`
	Role       models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and validates signed session tokens
type Tokens struct {
	secret   []byte
	issuer   string
	audience string
	expiry   time.Duration
}

// NewTokens builds a token signer from the JWT settings in cfg
func NewTokens(cfg *config.Config) *Tokens {
	return &Tokens{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.JWTIssuer,
		audience: cfg.JWTAudience,
		expiry:   cfg.JWTExpiry,
	}
}

// now is swapped in tests to check expiry
var now = time.Now

// GenerateToken generates a JWT token for the given employee
func (t *Tokens) GenerateToken(e *models.Employee) (string, error) {
	issued := now()
	claims := Claims{
		EmployeeID: e.ID,
		Username:   e.Username,
		Name:       e.Name,
		Role:       e.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   e.ID,
			ExpiresAt: jwt.NewNumericDate(issued.Add(t.expiry)),
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			Issuer:    t.issuer,
			Audience:  jwt.ClaimStrings{t.audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// ValidateToken validates a JWT token and returns the claims
func (t *Tokens) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithAudience(t.audience),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !claims.Role.Valid() {
		return nil, errors.Errorf("invalid role %q in token", claims.Role)
	}
	return claims, nil
}
