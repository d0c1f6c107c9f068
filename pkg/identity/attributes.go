package identity

import (
	"strings"
	"time"
)

// ToUserRecord maps a flat attribute bag to a UserRecord.
//
// Username is the first non-empty of: name, preferred_username, the local
// part of email, internalID. Missing attributes map to zero values. The
// provider does not expose reliable per-record audit times on every path, so
// both timestamps are set to now.
func ToUserRecord(attrs map[string]string, enabled bool, internalID string, now time.Time) UserRecord {
	return UserRecord{
		Email:           attrs[AttrEmail],
		Username:        firstNonEmpty(attrs[AttrName], attrs[AttrPreferredUsername], EmailLocalPart(attrs[AttrEmail]), internalID),
		PhoneNumber:     attrs[AttrPhoneNumber],
		ProfileImageURL: attrs[AttrProfileImageURL],
		IsActive:        enabled,
		EmailVerified:   strings.EqualFold(attrs[AttrEmailVerified], "true"),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// EmailLocalPart returns the text before the first "@".
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
