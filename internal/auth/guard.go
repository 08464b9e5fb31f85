package auth

// RequireAuthenticated fails closed when no valid session was resolved.
func RequireAuthenticated(identity Identity) error {
	if identity.IsZero() {
		return ErrUnauthorized
	}
	return nil
}

// RequireOwnership allows a mutation only when the session identity matches
// the owner id read from the stored resource. The owner id must never come
// from the request body: a caller cannot assert ownership it does not hold.
func RequireOwnership(identity Identity, ownerID string) error {
	if err := RequireAuthenticated(identity); err != nil {
		return err
	}
	if identity.ID != ownerID {
		return ErrForbidden
	}
	return nil
}
