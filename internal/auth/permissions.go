package auth

// Permission is a named capability granted to users and required by route rules.
// Permission names are persisted in the privileges table and must stay stable.
type Permission string

// Movie permissions
const (
	GetMovie    Permission = "GET_MOVIE"
	CreateMovie Permission = "CREATE_MOVIE"
	EditMovie   Permission = "EDIT_MOVIE"
	DeleteMovie Permission = "DELETE_MOVIE"

	// VotesMovie allows casting a score for a movie
	VotesMovie Permission = "VOTES_MOVIE"
)

// Review permissions
const (
	GetReview    Permission = "GET_REVIEW"
	CreateReview Permission = "CREATE_REVIEW"
	EditReview   Permission = "EDIT_REVIEW"
	DeleteReview Permission = "DELETE_REVIEW"
)

// Staff permissions
const (
	GetStaff    Permission = "GET_STAFF"
	CreateStaff Permission = "CREATE_STAFF"
	EditStaff   Permission = "EDIT_STAFF"
	DeleteStaff Permission = "DELETE_STAFF"
)

// User administration permissions
const (
	GetUser    Permission = "GET_USER"
	CreateUser Permission = "CREATE_USER"
	EditUser   Permission = "EDIT_USER"
	DeleteUser Permission = "DELETE_USER"

	// GetPrivilege allows listing the privilege catalogue
	GetPrivilege Permission = "GET_PRIVILEGE"

	// EditPrivilege allows replacing another user's privilege set
	EditPrivilege Permission = "EDIT_PRIVILEGE"
)

// AllPermissions lists every known permission in a stable order.
func AllPermissions() []Permission {
	return []Permission{
		GetMovie, CreateMovie, EditMovie, DeleteMovie, VotesMovie,
		GetReview, CreateReview, EditReview, DeleteReview,
		GetStaff, CreateStaff, EditStaff, DeleteStaff,
		GetUser, CreateUser, EditUser, DeleteUser,
		GetPrivilege, EditPrivilege,
	}
}

// SignupPermissions are granted to every self-registered user.
func SignupPermissions() []Permission {
	return []Permission{GetReview, CreateReview, GetStaff, GetMovie, VotesMovie}
}

// IsKnownPermission reports whether name is one of AllPermissions.
func IsKnownPermission(name string) bool {
	for _, p := range AllPermissions() {
		if string(p) == name {
			return true
		}
	}
	return false
}
