package dto

import (
	"encoding/json"

	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"
)

// UserParams is the "user" object of POST /users.
type UserParams struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`

	present bool
}

func (p *UserParams) UnmarshalJSON(data []byte) error {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	type plain UserParams
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = UserParams(v)
	p.present = len(keys) > 0
	return nil
}

// Empty reports whether the object was absent, null or {}.
func (p *UserParams) Empty() bool { return p == nil || !p.present }

// RegisterRequest is the JSON body for POST /users.
type RegisterRequest struct {
	User *UserParams `json:"user"`
}

// UserResponse is returned after registration. It carries the bearer token once.
type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

func NewUserResponse(u dom.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Token: u.Token}
}

type UserEnvelope struct {
	User UserResponse `json:"user"`
}
