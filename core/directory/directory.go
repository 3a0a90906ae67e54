package directory

import "context"

// MaxPageSize is the largest page the directory serves.
const MaxPageSize = 60

// User is a directory user as returned by a page listing.
type User struct {
	// Username identifies the user in the directory and in the roster.
	Username string
	// Attributes holds directory-side attributes. They are informational only.
	Attributes map[string]string
}

// Page is one slice of the directory's user collection.
type Page struct {
	Users []User
	// NextCursor is the opaque continuation token. Nil means no further pages.
	NextCursor *string
}

// Directory is the identity directory holding users and groups.
type Directory interface {
	// ListUsers fetches one page starting at cursor. A nil cursor starts from
	// the beginning.
	ListUsers(ctx context.Context, cursor *string, limit int32) (*Page, error)
	// AddUserToGroup ensures username is a member of group.
	AddUserToGroup(ctx context.Context, username, group string) error
}

// ClampLimit bounds a requested page size to 1..MaxPageSize.
// Out-of-range values fall back to MaxPageSize.
func ClampLimit(limit int) int32 {
	if limit <= 0 || limit > MaxPageSize {
		return MaxPageSize
	}
	return int32(limit)
}
