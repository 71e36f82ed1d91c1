package domain

// TeamMembership links a staff member to a team. Staff may belong to many teams.
type TeamMembership struct {
	TeamID  int64
	StaffID int64
}
