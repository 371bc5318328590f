package common

// Identity is the authenticated caller resolved by the session middleware.
// The zero value is the anonymous visitor. Every service operation that
// cares about the caller takes an Identity parameter explicitly; nothing
// reads it from ambient state.
type Identity struct {
	UserID   uint64
	Username string
}

// Anonymous is the identity of an unauthenticated request.
var Anonymous = Identity{}

func (id Identity) IsAnonymous() bool {
	return id.UserID == 0
}

// RequireAuthenticated gates operations that need a logged-in caller.
func RequireAuthenticated(id Identity) error {
	if id.IsAnonymous() {
		return ErrUnauthenticated
	}
	return nil
}

// RequireOwner gates mutations on author-owned resources. An anonymous
// caller fails the authentication check first.
func RequireOwner(id Identity, authorID uint64) error {
	if err := RequireAuthenticated(id); err != nil {
		return err
	}
	if id.UserID != authorID {
		return ErrUnauthorized
	}
	return nil
}
