package model

// Profile is the authenticated viewer as served by GET /api/users/me.
type Profile struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	RoleRaw        string `json:"role"`
	OrganisationID int64  `json:"organisation_id"`
	IsVerified     bool   `json:"is_verified"`
}

// Role parses the wire role string.
func (p *Profile) Role() Role {
	return ParseRole(p.RoleRaw)
}
