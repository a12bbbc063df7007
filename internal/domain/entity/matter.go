package entity

import "github.com/google/uuid"

// Assignment описывает дополнительное назначение сотрудника на дело с ролевой меткой.
type Assignment struct {
	UserID  uuid.UUID
	RoleTag string
}

// MatterTeam хранит ролевые слоты дела, по которым эскалация находит адресата.
type MatterTeam struct {
	MatterID        uuid.UUID
	FirmID          uuid.UUID
	Reference       string
	Title           string
	OwnerID         *uuid.UUID
	MatterManagerID *uuid.UUID
	MatterPartnerID *uuid.UUID
	ClientPartnerID *uuid.UUID
	Assignments     []Assignment
	// FirmAdminID используется как запасной адресат эскалации.
	FirmAdminID *uuid.UUID
}

// AssignedWith возвращает первого назначенного с одной из меток.
func (t *MatterTeam) AssignedWith(tags ...string) *uuid.UUID {
	for _, a := range t.Assignments {
		for _, tag := range tags {
			if a.RoleTag == tag {
				id := a.UserID
				return &id
			}
		}
	}
	return nil
}
