package posts

// requireOwner is the single authorization guard for owner-restricted
// mutations: the caller must be the owner of the target entity. Every
// mutating operation with an ownership rule goes through here rather than
// repeating inline comparisons.
func requireOwner(callerID, ownerID string) error {
	if callerID == "" || callerID != ownerID {
		return ErrNotAuthorized
	}
	return nil
}
