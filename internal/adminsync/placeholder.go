package adminsync

import "strings"

// DefaultPlaceholderDomain is the domain generated owner emails live under.
const DefaultPlaceholderDomain = "chamber122.com"

func placeholderDomain(domain string) string {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(domain), "@"))
	if domain == "" {
		return DefaultPlaceholderDomain
	}
	return domain
}

// IsPlaceholderEmail reports whether email is empty or generated under the
// placeholder domain.
func IsPlaceholderEmail(email, domain string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return true
	}
	return strings.HasSuffix(email, "@"+placeholderDomain(domain))
}

// IsRealEmail is the negation of IsPlaceholderEmail.
func IsRealEmail(email, domain string) bool {
	return !IsPlaceholderEmail(email, domain)
}

// PlaceholderEmail builds the stand-in address for a business whose owner
// email is unknown.
func PlaceholderEmail(businessID, domain string) string {
	return "business_" + strings.TrimSpace(businessID) + "@" + placeholderDomain(domain)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
