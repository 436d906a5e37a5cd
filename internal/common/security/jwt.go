package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken          = errors.New("no token provided")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)

// Claims is the payload of a bearer token. Subject holds the same id as a
// decimal string.
type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. Verification is
// stateless: there is no revocation list, a token stays valid until exp.
type TokenService struct {
	key        []byte
	defaultTTL time.Duration
	now        func() time.Time
}

type TokenOption func(*TokenService)

// WithClock overrides the time source used for iat/exp and expiry checks.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(key []byte, defaultTTL time.Duration, opts ...TokenOption) *TokenService {
	s := &TokenService{key: key, defaultTTL: defaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultTTL is the lifetime used for login and registration tokens.
func (s *TokenService) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Issue signs a token for subjectID that expires ttl after now.
func (s *TokenService) Issue(subjectID int64, ttl time.Duration) (string, error) {
	if subjectID <= 0 {
		return "", fmt.Errorf("issue token: invalid subject %d", subjectID)
	}
	now := s.now()
	claims := Claims{
		UserID: subjectID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its subject.
// A token is still valid at exactly its expiry second.
func (s *TokenService) Verify(token string) (int64, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return 0, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
		default:
			return 0, fmt.Errorf("%w: %v", ErrMalformedToken, err)
		}
	}

	if claims.ExpiresAt == nil {
		return 0, fmt.Errorf("%w: missing exp claim", ErrMalformedToken)
	}
	if s.now().After(claims.ExpiresAt.Time) {
		return 0, ErrTokenExpired
	}

	subject := claims.UserID
	if subject <= 0 {
		parsed, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil || parsed <= 0 {
			return 0, fmt.Errorf("%w: missing subject", ErrMalformedToken)
		}
		subject = parsed
	}
	return subject, nil
}
