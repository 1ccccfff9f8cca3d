package models

import "time"

// Role is the access level of a User.
type Role string

const (
	RoleManager Role = "MANAGER"
	RoleBranch  Role = "BRANCH"
)

type User struct {
	ID           string    `json:"id" validate:"required"`
	Email        string    `json:"email" validate:"required"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"passwordHash"`
	Role         Role      `json:"role" validate:"required,oneof=MANAGER BRANCH"`
	BranchID     *string   `json:"branchId"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// Branch is a display copy filled on export and ignored on restore.
	Branch *BranchRef `json:"branch,omitempty" validate:"-"`
}

// UserRef is the inlined summary of a user inside exported shipments.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Ref() *UserRef {
	return &UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
