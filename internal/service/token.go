package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

// Principal описывает пользователя, от имени которого выполняется запрос.
type Principal struct {
	UserID uuid.UUID
	FirmID uuid.UUID
	Role   valueobject.Role
}

var ErrInvalidToken = errors.New("токен невалиден")

// TokenManager отвечает за выпуск и проверку access JWT.
// Вход и refresh выполняет сервис идентификации, здесь только проверка.
type TokenManager struct {
	accessSecret []byte
	accessTTL    time.Duration
}

func NewTokenManager(accessSecret string, accessTTL time.Duration) *TokenManager {
	return &TokenManager{
		accessSecret: []byte(accessSecret),
		accessTTL:    accessTTL,
	}
}

// Issue выпускает access токен. Используется CLI для служебных токенов и в тестах.
func (m *TokenManager) Issue(p Principal, now time.Time) (string, time.Time, error) {
	exp := now.Add(m.accessTTL)
	claims := jwt.MapClaims{
		"sub":     p.UserID.String(),
		"firm_id": p.FirmID.String(),
		"role":    string(p.Role),
		"iat":     now.Unix(),
		"exp":     exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.accessSecret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccess проверяет подпись и срок действия и извлекает пользователя, фирму и роль.
func (m *TokenManager) ParseAccess(token string) (*Principal, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return m.accessSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	userID, err := uuidClaim(claims, "sub")
	if err != nil {
		return nil, err
	}
	firmID, err := uuidClaim(claims, "firm_id")
	if err != nil {
		return nil, err
	}

	rawRole, _ := claims["role"].(string)
	role := valueobject.Role(rawRole)
	if !role.IsValid() {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return &Principal{UserID: userID, FirmID: firmID, Role: role}, nil
}

func uuidClaim(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	raw, ok := claims[key].(string)
	if !ok {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, jwt.ErrTokenInvalidClaims
	}
	return id, nil
}
