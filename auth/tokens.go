package auth

import (
	"errors"
	"time"

	"github.com/atmacsn/agriadmin/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

type TokenKind string

const (
	AccessToken  TokenKind = "access"
	RefreshToken TokenKind = "refresh"
)

const (
	DefaultAccessTTL  = 45 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type Claims struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role,omitempty"`
	Type TokenKind   `json:"typ"`
	jwt.RegisteredClaims
}

// Principal is the authenticated caller as read from a verified access token.
type Principal struct {
	ID   bson.ObjectID
	Role models.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// TokenPair is the session handed to a client: the access token goes into
// the response body, the refresh token into the cookie.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenService(cfg TokenConfig) *TokenService {
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = cfg.AccessSecret
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = DefaultRefreshTTL
	}
	return &TokenService{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *TokenService) IssuePair(account *models.Account) (TokenPair, error) {
	access, accessExp, err := s.IssueAccess(account)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, refreshExp, err := s.IssueRefresh(account)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      access,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (s *TokenService) IssueAccess(account *models.Account) (string, time.Time, error) {
	return s.sign(Claims{ID: account.ID.Hex(), Role: account.Role, Type: AccessToken}, s.accessSecret, s.accessTTL)
}

func (s *TokenService) IssueRefresh(account *models.Account) (string, time.Time, error) {
	return s.sign(Claims{ID: account.ID.Hex(), Type: RefreshToken}, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) sign(claims Claims, secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify checks signature, expiry and token kind. It fails with
// ErrExpiredToken for an expired but otherwise valid token and with
// ErrInvalidToken for everything else.
func (s *TokenService) Verify(tokenStr string, kind TokenKind) (*Claims, error) {
	secret := s.accessSecret
	if kind == RefreshToken {
		secret = s.refreshSecret
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Type != kind {
		return nil, ErrInvalidToken
	}
	if _, err := bson.ObjectIDFromHex(claims.ID); err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (c *Claims) Principal() Principal {
	id, _ := bson.ObjectIDFromHex(c.ID)
	return Principal{ID: id, Role: c.Role}
}

// Expiry is the token's own expiry, used as the revocation ledger TTL.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}
