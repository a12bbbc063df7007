package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
)

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := NewTokenManager("test-secret-with-enough-length-000", 15*time.Minute)
	p := Principal{UserID: uuid.New(), FirmID: uuid.New(), Role: valueobject.RoleSupervisor}

	token, exp, err := m.Issue(p, time.Now())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	got, err := m.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, p, *got)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret-with-enough-length-000", time.Minute)
	token, _, err := m.Issue(Principal{UserID: uuid.New(), FirmID: uuid.New(), Role: valueobject.RoleAdmin}, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = m.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	issuer := NewTokenManager("one-secret-with-enough-length-0000", time.Minute)
	checker := NewTokenManager("another-secret-with-enough-length-", time.Minute)
	token, _, err := issuer.Issue(Principal{UserID: uuid.New(), FirmID: uuid.New(), Role: valueobject.RoleAdmin}, time.Now())
	require.NoError(t, err)

	_, err = checker.ParseAccess(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RequiresFirmAndKnownRole(t *testing.T) {
	secret := "test-secret-with-enough-length-000"
	m := NewTokenManager(secret, time.Minute)
	exp := time.Now().Add(time.Minute).Unix()

	cases := map[string]jwt.MapClaims{
		"no firm":      {"sub": uuid.NewString(), "role": "ADMIN", "exp": exp},
		"unknown role": {"sub": uuid.NewString(), "firm_id": uuid.NewString(), "role": "CLIENT", "exp": exp},
		"bad subject":  {"sub": "nope", "firm_id": uuid.NewString(), "role": "ADMIN", "exp": exp},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
			require.NoError(t, err)
			_, err = m.ParseAccess(raw)
			assert.Error(t, err)
		})
	}
}
