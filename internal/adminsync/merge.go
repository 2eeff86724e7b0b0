package adminsync

import (
	"time"

	"github.com/chamber122/chamber122-backend/pkg/enums"
	"github.com/google/uuid"
)

// DefaultCountry is used when a listing does not name one.
const DefaultCountry = "Kuwait"

// MergeInput carries everything Merge consults besides the two lists.
type MergeInput struct {
	Overrides         *AdminState
	UserInfo          map[string]RemoteUser
	APIAvailable      bool
	Now               time.Time
	PlaceholderDomain string
	DefaultCountry    string
}

// MergeResult is the merged user list and what happened to it.
type MergeResult struct {
	Users       []User
	Imported    int
	Updated     int
	Resolutions []Resolution
}

// Discrepancies returns the resolutions where the backend overruled a local
// override.
func (r MergeResult) Discrepancies() []Resolution {
	out := []Resolution{}
	for _, res := range r.Resolutions {
		if res.Discrepancy() {
			out = append(out, res)
		}
	}
	return out
}

// OwnerUserID returns the user ID a business maps to. Ownerless businesses
// get an ID derived from the business ID so repeated imports agree.
func OwnerUserID(b RemoteBusiness) string {
	if b.OwnerID != "" {
		return b.OwnerID
	}
	if b.ID != "" {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte("chamber122:business:"+b.ID)).String()
	}
	return uuid.NewString()
}

type userIndex struct {
	byID       map[string]int
	byEmail    map[string]int
	byBusiness map[string]int
	domain     string
}

func newUserIndex(users []User, domain string) *userIndex {
	idx := &userIndex{
		byID:       map[string]int{},
		byEmail:    map[string]int{},
		byBusiness: map[string]int{},
		domain:     domain,
	}
	for i, u := range users {
		idx.add(i, u)
	}
	return idx
}

func (x *userIndex) add(i int, u User) {
	if u.ID != "" {
		if _, ok := x.byID[u.ID]; !ok {
			x.byID[u.ID] = i
		}
	}
	if IsRealEmail(u.Email, x.domain) {
		if _, ok := x.byEmail[normalizeEmail(u.Email)]; !ok {
			x.byEmail[normalizeEmail(u.Email)] = i
		}
	}
	if u.BusinessID != "" {
		if _, ok := x.byBusiness[u.BusinessID]; !ok {
			x.byBusiness[u.BusinessID] = i
		}
	}
}

// find applies the match precedence: ID, then real email, then business ID.
func (x *userIndex) find(id, email, businessID string) (int, bool) {
	if i, ok := x.byID[id]; ok && id != "" {
		return i, true
	}
	if IsRealEmail(email, x.domain) {
		if i, ok := x.byEmail[normalizeEmail(email)]; ok {
			return i, true
		}
	}
	if i, ok := x.byBusiness[businessID]; ok && businessID != "" {
		return i, true
	}
	return 0, false
}

// Merge folds fetched businesses into the existing user list. It is pure:
// the same inputs always produce the same output, and merging a snapshot
// into its own result changes nothing.
func Merge(existing []User, businesses []RemoteBusiness, in MergeInput) MergeResult {
	if in.Now.IsZero() {
		in.Now = time.Now().UTC()
	}
	country := in.DefaultCountry
	if country == "" {
		country = DefaultCountry
	}

	users := make([]User, len(existing))
	copy(users, existing)
	idx := newUserIndex(users, in.PlaceholderDomain)
	result := MergeResult{}

	for _, b := range businesses {
		userID := OwnerUserID(b)
		info := in.UserInfo[b.OwnerID]
		fetchedEmail := firstRealEmail(in.PlaceholderDomain, info.Email, b.OwnerEmail)

		pos, matched := idx.find(userID, fetchedEmail, b.ID)
		var prev User
		if matched {
			prev = users[pos]
		}

		merged := mergeUser(prev, matched, userID, b, info, fetchedEmail, country, in)

		local, ok := in.Overrides.Status(merged.ID)
		if !ok && matched && prev.Status.IsValid() {
			local = prev.Status
		}
		res := Resolve(BackendStatus(b), local, in.APIAvailable)
		res.UserID = merged.ID
		merged.Status = res.Status
		result.Resolutions = append(result.Resolutions, res)

		if matched {
			users[pos] = merged
			result.Updated++
		} else {
			users = append(users, merged)
			pos = len(users) - 1
			result.Imported++
		}
		idx.add(pos, merged)
		if userID != merged.ID {
			if _, taken := idx.byID[userID]; !taken {
				idx.byID[userID] = pos
			}
		}
	}

	result.Users = users
	return result
}

func mergeUser(prev User, matched bool, userID string, b RemoteBusiness, info RemoteUser, fetchedEmail, country string, in MergeInput) User {
	u := prev
	if !matched {
		u = User{ID: userID}
	}

	switch {
	case matched && IsRealEmail(prev.Email, in.PlaceholderDomain):
	case fetchedEmail != "":
		u.Email = fetchedEmail
	case matched && prev.Email != "":
		// an earlier placeholder stays stable across re-imports
	case b.ID != "":
		u.Email = PlaceholderEmail(b.ID, in.PlaceholderDomain)
	case u.Email == "":
		u.Email = PlaceholderEmail(u.ID, in.PlaceholderDomain)
	}

	u.Name = firstNonEmpty(prev.Name, info.Name, b.OwnerName, b.DisplayName())
	u.Phone = firstNonEmpty(prev.Phone, info.Phone, b.OwnerPhone)
	u.BusinessName = b.DisplayName()
	u.Industry = firstNonEmpty(b.Industry, prev.Industry)
	u.City = firstNonEmpty(b.City, prev.City)
	u.Country = firstNonEmpty(b.Country, prev.Country, country)
	u.Description = firstNonEmpty(b.Description, prev.Description)
	u.WhatsApp = firstNonEmpty(b.WhatsApp, prev.WhatsApp)
	u.Website = firstNonEmpty(b.Website, prev.Website)
	u.LogoURL = firstNonEmpty(b.LogoURL, prev.LogoURL)
	u.BusinessID = firstNonEmpty(b.ID, prev.BusinessID)
	u.CreatedAt = firstTime(b.CreatedAt, prev.CreatedAt, in.Now)
	u.UpdatedAt = firstTime(b.UpdatedAt, prev.UpdatedAt, in.Now)
	return u
}

func firstRealEmail(domain string, candidates ...string) string {
	for _, c := range candidates {
		if IsRealEmail(c, domain) {
			return normalizeEmail(c)
		}
	}
	return ""
}

func firstTime(values ...time.Time) time.Time {
	for _, v := range values {
		if !v.IsZero() {
			return v.UTC()
		}
	}
	return time.Time{}
}

// ResolvedStatuses maps user IDs to their merged status, for seeding the
// override store.
func ResolvedStatuses(users []User) map[string]enums.AccountStatus {
	out := make(map[string]enums.AccountStatus, len(users))
	for _, u := range users {
		if u.ID != "" && u.Status.IsValid() {
			out[u.ID] = u.Status
		}
	}
	return out
}
