package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/lexsuite-backend/internal/domain/entity"
	"github.com/ignatzorin/lexsuite-backend/internal/domain/valueobject"
	"github.com/ignatzorin/lexsuite-backend/internal/service"
	"github.com/ignatzorin/lexsuite-backend/internal/usecase/escalation"
)

const testSecret = "deadlinectl-test-secret-deadlinectl-test"

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := RootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTokenCmd_IssuesParsableToken(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", testSecret)
	user, firm := uuid.New(), uuid.New()

	out, err := runCmd(t, "token", "--user", user.String(), "--firm", firm.String(), "--role", "supervisor", "--ttl", "1h")
	require.NoError(t, err)

	principal, err := service.NewTokenManager(testSecret, time.Hour).ParseAccess(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, user, principal.UserID)
	assert.Equal(t, firm, principal.FirmID)
	assert.Equal(t, valueobject.RoleSupervisor, principal.Role)
}

func TestTokenCmd_RejectsBadInput(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", testSecret)

	_, err := runCmd(t, "token", "--user", "nope", "--firm", uuid.NewString())
	assert.ErrorContains(t, err, "--user")

	_, err = runCmd(t, "token", "--user", uuid.NewString(), "--firm", uuid.NewString(), "--role", "judge")
	assert.ErrorContains(t, err, "--role")

	_, err = runCmd(t, "token", "--user", uuid.NewString())
	assert.Error(t, err)
}

func TestPrinters(t *testing.T) {
	color.NoColor = true
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	printKeyDates(&buf, []*entity.KeyDate{{
		Title:           "Подать возражения",
		DueAt:           now.Add(-72 * time.Hour),
		Priority:        valueobject.PriorityHigh,
		Status:          valueobject.KeyDateStatusBreach,
		MatterReference: "LIT-9",
	}}, now)
	assert.Contains(t, buf.String(), "LIT-9")
	assert.Contains(t, buf.String(), "BREACH")

	buf.Reset()
	printSummaries(&buf, []*escalation.PassSummary{{FirmID: uuid.Nil, Evaluated: 4, Dispatched: 2}, nil})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], uuid.Nil.String())

	buf.Reset()
	printPolicies(&buf, []entity.EscalationPolicy{{
		Tier:        valueobject.TierT48H,
		OffsetHours: 48,
		EscalateTo:  valueobject.TargetOwner,
		Channels:    []valueobject.Channel{valueobject.ChannelInApp, valueobject.ChannelEmail},
		IsActive:    true,
	}})
	assert.Contains(t, buf.String(), "IN_APP,EMAIL")
	assert.Contains(t, buf.String(), "48h")
}

func TestStatusColor_KeepsStatusText(t *testing.T) {
	color.NoColor = true
	for _, s := range []valueobject.KeyDateStatus{
		valueobject.KeyDateStatusOnTrack,
		valueobject.KeyDateStatusAtRisk,
		valueobject.KeyDateStatusOverdue,
		valueobject.KeyDateStatusBreach,
	} {
		assert.Equal(t, string(s), statusColor(s))
	}
}
