package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shenikar/jalanguard/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims - полезная нагрузка токена
type Claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// Manager хеширует пароли и выпускает/проверяет подписанные токены
type Manager struct {
	secret     []byte
	method     jwt.SigningMethod
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewManager создает Manager из конфигурации приложения
func NewManager(cfg *config.Config) (*Manager, error) {
	method, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	return &Manager{
		secret:     []byte(cfg.SecretKey),
		method:     method,
		issuer:     cfg.AppName,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}, nil
}

// WithBcryptCost меняет стоимость хеширования (в тестах используется bcrypt.MinCost)
func (m *Manager) WithBcryptCost(cost int) *Manager {
	m.bcryptCost = cost
	return m
}

func signingMethod(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	}
	return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
}

// HashPassword возвращает bcrypt-хеш пароля с солью
func (m *Manager) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), m.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword сравнивает пароль с хешем за постоянное время
func (m *Manager) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// AccessTokenTTL - время жизни access токена
func (m *Manager) AccessTokenTTL() time.Duration {
	return m.accessTTL
}

func (m *Manager) CreateAccessToken(subject string) (string, error) {
	return m.createToken(subject, TokenTypeAccess, m.accessTTL)
}

func (m *Manager) CreateRefreshToken(subject string) (string, error) {
	return m.createToken(subject, TokenTypeRefresh, m.refreshTTL)
}

func (m *Manager) createToken(subject, tokenType string, ttl time.Duration) (string, error) {
	now := m.now().UTC()
	claims := Claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// DecodeToken проверяет подпись и срок действия и возвращает claims
func (m *Manager) DecodeToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// DecodeAccessToken дополнительно требует тип access и возвращает ID пользователя
func (m *Manager) DecodeAccessToken(tokenStr string) (uuid.UUID, error) {
	claims, err := m.DecodeToken(tokenStr)
	if err != nil {
		return uuid.Nil, err
	}
	if claims.Type != TokenTypeAccess {
		return uuid.Nil, fmt.Errorf("%w: unexpected token type %q", ErrInvalidToken, claims.Type)
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}
	return userID, nil
}
