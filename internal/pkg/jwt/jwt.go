package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every validation failure: bad signature, wrong
// algorithm, expiry, malformed claims. Callers get no more detail than that.
var ErrInvalidToken = errors.New("invalid token")

// Service signs and validates dashboard session tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// Claims identify the authenticated inspector and the account they belong
// to. Every protected handler scopes its queries by AccountID.
type Claims struct {
	InspectorID int64 `json:"inspector_id"`
	AccountID   int64 `json:"account_id"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

func (s *Service) GenerateToken(inspectorID, accountID int64) (string, error) {
	now := time.Now()
	claims := Claims{
		InspectorID: inspectorID,
		AccountID:   accountID,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(t *jwtlib.Token) (any, error) { return s.secret, nil },
		jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || claims.InspectorID == 0 || claims.AccountID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
