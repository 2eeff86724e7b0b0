package enums

import (
	"fmt"
	"strings"
)

// AccountStatus is the review state of an owner account and its business.
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "pending"
	AccountStatusApproved  AccountStatus = "approved"
	AccountStatusRejected  AccountStatus = "rejected"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusNeedsFix  AccountStatus = "needs_fix"
	AccountStatusUpdated   AccountStatus = "updated"
)

var validAccountStatuses = []AccountStatus{
	AccountStatusPending,
	AccountStatusApproved,
	AccountStatusRejected,
	AccountStatusSuspended,
	AccountStatusNeedsFix,
	AccountStatusUpdated,
}

// String implements fmt.Stringer.
func (s AccountStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AccountStatus.
func (s AccountStatus) IsValid() bool {
	for _, candidate := range validAccountStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsActive reports whether the status keeps a listing visible.
func (s AccountStatus) IsActive() bool {
	return s == AccountStatusApproved
}

// Priority groups statuses for the admin review queue. Accounts that need
// attention sort first, approved accounts last.
func (s AccountStatus) Priority() int {
	switch s {
	case AccountStatusPending, AccountStatusRejected, AccountStatusSuspended, AccountStatusNeedsFix:
		return 0
	case AccountStatusUpdated:
		return 1
	case AccountStatusApproved:
		return 2
	default:
		return 3
	}
}

// ParseAccountStatus converts raw input into an AccountStatus. Input is
// trimmed and compared case-insensitively.
func ParseAccountStatus(value string) (AccountStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validAccountStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account status %q", value)
}

// AccountStatuses returns every known status.
func AccountStatuses() []AccountStatus {
	out := make([]AccountStatus, len(validAccountStatuses))
	copy(out, validAccountStatuses)
	return out
}
