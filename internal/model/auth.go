package model

const RoleAdmin = "admin"

// AdminIdentity is the single configured admin credential. It is loaded once
// at startup and never mutated afterwards.
type AdminIdentity struct {
	Username     string
	PasswordHash string
}

// Principal is the identity/role pair decoded from a verified token.
type Principal struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}
