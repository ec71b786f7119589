package crypto

import (
	"errors"
	"maps"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Claims is the verified content of a bearer token.
type Claims struct {
	Subject   string
	ID        string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any
}

// Expired reports whether the token is no longer current at now.
func (c *Claims) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// ValidFor reports whether the token names subject and is still current.
func (c *Claims) ValidFor(subject string, now time.Time) bool {
	return c.Subject == subject && !c.Expired(now)
}

// TokenService issues and verifies HS256 tokens under a single injected key.
type TokenService struct {
	secret []byte
	expiry time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenService creates a TokenService. Tokens expire expiry after issuance.
func NewTokenService(secret []byte, expiry time.Duration, issuer string) *TokenService {
	return &TokenService{
		secret: secret,
		expiry: expiry,
		issuer: issuer,
		now:    time.Now,
	}
}

// Issue signs a token for subject. Registered claims take precedence over
// entries of the same name in extra.
func (s *TokenService) Issue(subject string, extra map[string]any) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{}
	maps.Copy(claims, extra)
	claims["sub"] = subject
	claims["iss"] = s.issuer
	claims["jti"] = uuid.NewString()
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(s.expiry))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature, algorithm, structure and issuer of a token.
// Expiry is not enforced here; callers decide with Claims.Expired or ValidFor.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	mc := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, mc, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithoutClaimsValidation(), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, err := toClaims(mc)
	if err != nil {
		return nil, err
	}
	if claims.Issuer != s.issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// IsExpired reports whether the token has expired. Tokens that fail
// verification are treated as expired.
func (s *TokenService) IsExpired(tokenString string) bool {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return true
	}
	return claims.Expired(s.now())
}

// IsValidFor reports whether the token verifies, names expectedSubject and is
// not expired.
func (s *TokenService) IsValidFor(tokenString, expectedSubject string) bool {
	claims, err := s.Verify(tokenString)
	if err != nil {
		return false
	}
	return claims.ValidFor(expectedSubject, s.now())
}

func toClaims(mc jwt.MapClaims) (*Claims, error) {
	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, ErrInvalidToken
	}
	iss, err := mc.GetIssuer()
	if err != nil {
		return nil, ErrInvalidToken
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrInvalidToken
	}
	iat, err := mc.GetIssuedAt()
	if err != nil || iat == nil {
		return nil, ErrInvalidToken
	}
	jti, _ := mc["jti"].(string)

	extra := make(map[string]any)
	for k, v := range mc {
		switch k {
		case "sub", "iss", "exp", "iat", "jti":
			continue
		}
		extra[k] = v
	}

	return &Claims{
		Subject:   sub,
		ID:        jti,
		Issuer:    iss,
		IssuedAt:  iat.Time,
		ExpiresAt: exp.Time,
		Extra:     extra,
	}, nil
}
