package helpers

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kodzovi/eventbook/internal/models"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	AccessTokenTTL  = time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// RoleClaims is the fixed-shape role record resolved at token-issue time.
// Exactly one flag is true for a known identity, none for an unknown one.
type RoleClaims struct {
	Superuser bool `json:"superuser"`
	Admin     bool `json:"admin"`
	Organizer bool `json:"organizer"`
	Client    bool `json:"client"`
}

// TokenClaims is the payload of both token types. Refresh tokens carry only
// the registered claims; access tokens also carry the role record and the
// fresh flag set at password login.
type TokenClaims struct {
	Roles     RoleClaims `json:"roles"`
	Fresh     bool       `json:"fresh"`
	TokenType string     `json:"typ"`
	jwt.RegisteredClaims
}

// DeriveRoleClaims probes the admin, organizer and user registries in that
// order and returns the first match's role flags.
func DeriveRoleClaims(db *gorm.DB, identityID uuid.UUID) RoleClaims {
	var admin models.Admin
	if err := db.Scopes(models.ActiveOnly).Where("id = ?", identityID).First(&admin).Error; err == nil {
		if admin.Role == models.RoleSuperuser {
			return RoleClaims{Superuser: true}
		}
		return RoleClaims{Admin: true}
	}

	var organizer models.Organizer
	if err := db.Scopes(models.ActiveOnly).Where("id = ?", identityID).First(&organizer).Error; err == nil {
		return RoleClaims{Organizer: true}
	}

	var user models.User
	if err := db.Scopes(models.ActiveOnly).Where("id = ?", identityID).First(&user).Error; err == nil {
		return RoleClaims{Client: true}
	}

	return RoleClaims{}
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET not configured")
	}
	return []byte(secret), nil
}

// IssueAccessToken signs a short-lived access token carrying the identity's
// role claims and a unique jti used as the revocation key.
func IssueAccessToken(db *gorm.DB, identityID uuid.UUID, fresh bool) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := TokenClaims{
		Roles:     DeriveRoleClaims(db, identityID),
		Fresh:     fresh,
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID.String(),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// IssueRefreshToken signs a long-lived refresh token carrying only the
// identity id. Claims are re-derived when the token is exchanged, so role
// changes take effect without a re-login.
func IssueRefreshToken(identityID uuid.UUID) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := TokenClaims{
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID.String(),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(RefreshTokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// IssueTokenPair returns a fresh access token and a refresh token, the shape
// handed out at login and registration.
func IssueTokenPair(db *gorm.DB, identityID uuid.UUID) (accessToken, refreshToken string, err error) {
	accessToken, err = IssueAccessToken(db, identityID, true)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = IssueRefreshToken(identityID)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// ParseToken validates the signature and expiry and returns the claims.
func ParseToken(tokenString string) (*TokenClaims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
