package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "photo-gallery/pkg/errors"
)

// Scoped action tokens bind one subject (a literal action tag or a concrete
// resource id) to a short expiry. Validity is fully determined by signature
// and expiry at verification time; nothing is stored server-side, so a
// token cannot be revoked before it expires.
const csrfTokenTTL = time.Hour

type csrfClaims struct {
	jwt.RegisteredClaims
}

// CSRFService issues and verifies scoped action tokens with a process-wide
// read-only secret.
type CSRFService struct {
	secret []byte
	now    func() time.Time
}

func NewCSRFService(secret string) *CSRFService {
	return &CSRFService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue encodes {subject, expiry = now + 1h} into a signed token.
func (s *CSRFService) Issue(subject string) (string, error) {
	now := s.now()
	claims := csrfClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(csrfTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal("Error creating token")
	}
	return signed, nil
}

// Verify checks signature, expiry and that the decoded subject matches the
// exact subject expected at the point of use. A token minted for one
// resource must never authorize a mutation on another, so the caller always
// supplies the concrete expected subject. All failure modes collapse into
// the same stale-token error: a mismatched token is indistinguishable from
// a forged one.
func (s *CSRFService) Verify(token, expectedSubject string) error {
	parsed, err := jwt.ParseWithClaims(token, &csrfClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.StaleToken()
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return apperrors.StaleToken()
	}

	claims, ok := parsed.Claims.(*csrfClaims)
	if !ok || !parsed.Valid {
		return apperrors.StaleToken()
	}
	if claims.Subject == "" || claims.Subject != expectedSubject {
		return apperrors.StaleToken()
	}
	return nil
}
