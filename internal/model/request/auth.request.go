package request

// Register accepts either a username or an email as the identity.
type Register struct {
	Username string `json:"username" validate:"omitempty,max=64"`
	Email    string `json:"email"    validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name"     validate:"omitempty,max=100"`
	Gender   string `json:"gender"   validate:"omitempty,max=32"`
}

// Login identifies the account by username or email.
type Login struct {
	Username string `json:"username" validate:"omitempty,max=254"`
	Email    string `json:"email"    validate:"omitempty,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

// Identity is the username, or the email when no username was supplied.
func (r Login) Identity() string {
	if r.Username != "" {
		return r.Username
	}
	return r.Email
}
