package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User is a registered account. Passwords are stored as bcrypt hashes only.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64      `bun:"id,pk,autoincrement" json:"id"`
	Email        string     `bun:"email,notnull,unique" json:"email"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	FirstName    string     `bun:"first_name" json:"firstName"`
	LastName     string     `bun:"last_name" json:"lastName"`
	BirthDay     *time.Time `bun:"birth_day" json:"birthDay,omitempty"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`

	Privileges []Privilege `bun:"m2m:user_privileges,join:User=Privilege" json:"privileges"`
}

// PrivilegeNames returns the names of the user's granted privileges.
func (u *User) PrivilegeNames() []string {
	names := make([]string, 0, len(u.Privileges))
	for _, p := range u.Privileges {
		names = append(names, p.Name)
	}
	return names
}

// Privilege is a named capability such as CREATE_MOVIE.
type Privilege struct {
	bun.BaseModel `bun:"table:privileges,alias:p"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"privilegeName"`
}

// UserPrivilege is the join row between users and privileges.
type UserPrivilege struct {
	bun.BaseModel `bun:"table:user_privileges,alias:up"`

	UserID      int64      `bun:"user_id,pk"`
	User        *User      `bun:"rel:belongs-to,join:user_id=id,on_delete:CASCADE"`
	PrivilegeID int64      `bun:"privilege_id,pk"`
	Privilege   *Privilege `bun:"rel:belongs-to,join:privilege_id=id,on_delete:CASCADE"`
}
