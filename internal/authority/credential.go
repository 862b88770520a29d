package authority

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "trustgate/pkg/domain-errors"
)

// CredentialClaims is the reusable verification credential. It carries only
// the verification outcome; identity fields never appear in a credential.
type CredentialClaims struct {
	PrincipalID    string   `json:"principal_id"`
	VerificationID string   `json:"verification_id"`
	Capabilities   []string `json:"capability_set"`
	RiskTier       string   `json:"risk_tier"`
	jwt.RegisteredClaims
}

// CredentialIssuer signs and validates verification credentials.
type CredentialIssuer struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

func NewCredentialIssuer(signingKey string) *CredentialIssuer {
	return &CredentialIssuer{
		signingKey: []byte(signingKey),
		issuer:     "trustgate-authority",
		ttl:        365 * 24 * time.Hour,
	}
}

// Issue signs a credential for a verified state.
func (c *CredentialIssuer) Issue(state State) (string, error) {
	caps := make([]string, 0, len(state.Capabilities))
	for _, capability := range state.Capabilities {
		caps = append(caps, string(capability))
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, CredentialClaims{
		PrincipalID:    state.PrincipalID,
		VerificationID: state.VerificationID,
		Capabilities:   caps,
		RiskTier:       string(state.RiskTier),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   state.PrincipalID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(c.signingKey)
}

// Validate parses a credential and returns its claims.
func (c *CredentialIssuer) Validate(tokenString string) (*CredentialClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &CredentialClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return c.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "credential has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credential")
	}
	claims, ok := parsed.Claims.(*CredentialClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credential")
	}
	return claims, nil
}
