package enums

import "fmt"

// ContentStatus is the publication state of events and bulletins.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusPublished ContentStatus = "published"
)

// String implements fmt.Stringer.
func (s ContentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ContentStatus.
func (s ContentStatus) IsValid() bool {
	return s == ContentStatusDraft || s == ContentStatusPublished
}

// ParseContentStatus converts raw input into a ContentStatus.
func ParseContentStatus(value string) (ContentStatus, error) {
	s := ContentStatus(value)
	if !s.IsValid() {
		return "", fmt.Errorf("invalid content status %q", value)
	}
	return s, nil
}
