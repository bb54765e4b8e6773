package models

import (
	"encoding/json"
	"fmt"
	"time"
)

type Role string

const (
	RoleDefault    Role = "default"
	RoleSuperAdmin Role = "super_admin"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleDefault, RoleSuperAdmin:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

const (
	FieldEmail         = "email"
	FieldRole          = "role"
	FieldCreatedAt     = "createdAt"
	FieldRoleUpdatedAt = "roleUpdatedAt"
)

type UserProfile struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"createdAt"`
	RoleUpdatedAt time.Time `json:"roleUpdatedAt"`
}

// ProfileFromDocument reads the fields this subsystem owns; anything else
// stored on the profile is ignored. A missing or unknown role reads as
// RoleDefault.
func ProfileFromDocument(id string, doc map[string]any) UserProfile {
	p := UserProfile{ID: id, Role: RoleDefault}
	if email, ok := doc[FieldEmail].(string); ok {
		p.Email = email
	}
	if raw, ok := doc[FieldRole].(string); ok {
		if role, err := ParseRole(raw); err == nil {
			p.Role = role
		}
	}
	p.CreatedAt = asTime(doc[FieldCreatedAt])
	p.RoleUpdatedAt = asTime(doc[FieldRoleUpdatedAt])
	return p
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case *time.Time:
		if t != nil {
			return *t
		}
	}
	return time.Time{}
}

// Session is the identity of the operator currently signed in.
type Session struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (s Session) MarshalBinary() ([]byte, error) {
	return json.Marshal(s)
}

func (s *Session) UnmarshalBinary(data []byte) error {
	return json.Unmarshal(data, s)
}
