package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ModeratorTokenService emite y valida los JWT del panel de escalaciones.
type ModeratorTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

type ModeratorToken struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	ExpiresIn   int64     `json:"expires_in"`
}

type ModeratorClaims struct {
	ModeratorID string `json:"mid"`
	DisplayName string `json:"display_name,omitempty"`
	TokenType   string `json:"typ"`
	jwt.RegisteredClaims
}

const moderatorTokenType = "moderator"

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

func NewModeratorTokenService(secret string, ttl time.Duration) *ModeratorTokenService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ModeratorTokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "divisafe-support",
	}
}

// Issue firma un token para el moderador indicado.
func (s *ModeratorTokenService) Issue(moderatorID, displayName string) (ModeratorToken, error) {
	moderatorID = strings.TrimSpace(moderatorID)
	if len(s.secret) == 0 || moderatorID == "" {
		return ModeratorToken{}, ErrTokenInvalid
	}
	now := time.Now().UTC()
	exp := now.Add(s.ttl)
	claims := ModeratorClaims{
		ModeratorID: moderatorID,
		DisplayName: strings.TrimSpace(displayName),
		TokenType:   moderatorTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   moderatorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return ModeratorToken{}, err
	}
	return ModeratorToken{
		AccessToken: signed,
		ExpiresAt:   exp,
		ExpiresIn:   int64(s.ttl.Seconds()),
	}, nil
}

// Parse valida firma, expiracion, emisor y tipo.
func (s *ModeratorTokenService) Parse(tokenString string) (ModeratorClaims, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return ModeratorClaims{}, ErrTokenInvalid
	}
	var claims ModeratorClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ModeratorClaims{}, ErrTokenExpired
		}
		return ModeratorClaims{}, ErrTokenInvalid
	}
	if claims.TokenType != moderatorTokenType {
		return ModeratorClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.ModeratorID) == "" || claims.Subject != claims.ModeratorID {
		return ModeratorClaims{}, ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Issuer) != s.issuer {
		return ModeratorClaims{}, ErrTokenInvalid
	}
	return claims, nil
}
