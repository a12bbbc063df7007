package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to DirectionStatus
		want     bool
	}{
		{DirectionStatusDraft, DirectionStatusPendingReview, true},
		{DirectionStatusPendingReview, DirectionStatusConfirmed, true},
		{DirectionStatusPendingReview, DirectionStatusVacated, true},
		{DirectionStatusConfirmed, DirectionStatusAmended, true},
		{DirectionStatusConfirmed, DirectionStatusConfirmed, false},
		{DirectionStatusVacated, DirectionStatusConfirmed, false},
		{DirectionStatusAmended, DirectionStatusConfirmed, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestNewPriority_DefaultsToNormal(t *testing.T) {
	p, err := NewPriority("")
	assert.NoError(t, err)
	assert.Equal(t, PriorityNormal, p)

	_, err = NewPriority("URGENT")
	assert.Error(t, err)
}

func TestNewChannels(t *testing.T) {
	channels, err := NewChannels([]string{"in_app", "EMAIL", "IN_APP"})
	assert.NoError(t, err)
	assert.Equal(t, []Channel{ChannelInApp, ChannelEmail}, channels)

	_, err = NewChannels(nil)
	assert.Error(t, err)

	_, err = NewChannels([]string{"FAX"})
	assert.Error(t, err)
}

func TestRole_HasMinRole(t *testing.T) {
	assert.True(t, RoleAdmin.HasMinRole(RoleSolicitor))
	assert.True(t, RoleSolicitor.HasMinRole(RoleSolicitor))
	assert.False(t, RoleParalegal.HasMinRole(RoleSolicitor))
	assert.False(t, Role("GUEST").HasMinRole(RoleParalegal))
}

func TestKeyDateStatus_Urgency(t *testing.T) {
	assert.Less(t, KeyDateStatusBreach.Urgency(), KeyDateStatusOverdue.Urgency())
	assert.Less(t, KeyDateStatusOverdue.Urgency(), KeyDateStatusAtRisk.Urgency())
	assert.Less(t, KeyDateStatusAtRisk.Urgency(), KeyDateStatusOnTrack.Urgency())
}
