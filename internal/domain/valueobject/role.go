package valueobject

// Role задаёт роль сотрудника фирмы.
type Role string

const (
	RoleParalegal       Role = "PARALEGAL"
	RoleTrainee         Role = "TRAINEE"
	RoleSolicitor       Role = "SOLICITOR"
	RoleSeniorSolicitor Role = "SENIOR_SOLICITOR"
	RoleSupervisor      Role = "SUPERVISOR"
	RolePartner         Role = "PARTNER"
	RoleColp            Role = "COLP"
	RoleAdmin           Role = "ADMIN"
)

var roleHierarchy = map[Role]int{
	RoleParalegal:       1,
	RoleTrainee:         2,
	RoleSolicitor:       3,
	RoleSeniorSolicitor: 4,
	RoleSupervisor:      5,
	RolePartner:         6,
	RoleColp:            7,
	RoleAdmin:           8,
}

func (r Role) IsValid() bool {
	_, ok := roleHierarchy[r]
	return ok
}

// HasMinRole проверяет, что роль не ниже требуемой. Неизвестная роль не проходит никогда.
func (r Role) HasMinRole(required Role) bool {
	level, ok := roleHierarchy[r]
	if !ok {
		return false
	}
	return level >= roleHierarchy[required]
}
