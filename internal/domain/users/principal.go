package users

// Principal is the authenticated caller carried by a request.
type Principal struct {
	ID   ID   `json:"id"`
	Role Role `json:"role"`
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// CanManage reports whether p may modify a resource owned by ownerID.
func (p Principal) CanManage(ownerID string) bool {
	return p.IsAdmin() || string(p.ID) == ownerID
}
