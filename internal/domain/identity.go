package domain

import "strings"

// AnonymousPrefix marks user ids that belong to the shared anonymous namespace.
// Stores treat rows under this prefix as owned by every caller.
const AnonymousPrefix = "anonymous_user_"

type Identity struct {
	UserID    string
	Anonymous bool
}

func UserIdentity(userID string) Identity {
	return Identity{UserID: userID, Anonymous: IsAnonymousUserID(userID)}
}

func AnonymousIdentity(token string) Identity {
	return Identity{UserID: AnonymousPrefix + token, Anonymous: true}
}

func IsAnonymousUserID(userID string) bool {
	return strings.HasPrefix(userID, AnonymousPrefix)
}
