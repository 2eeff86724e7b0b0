package enums

import "fmt"

// DocumentKind is the admin vocabulary for compliance documents.
type DocumentKind string

const (
	DocumentKindCivilIDFront  DocumentKind = "civil_id_front"
	DocumentKindCivilIDBack   DocumentKind = "civil_id_back"
	DocumentKindOwnerProof    DocumentKind = "owner_proof"
	DocumentKindLicense       DocumentKind = "license"
	DocumentKindIBAN          DocumentKind = "iban"
	DocumentKindArticles      DocumentKind = "articles"
	DocumentKindSignatureAuth DocumentKind = "signature_auth"
)

var validDocumentKinds = []DocumentKind{
	DocumentKindCivilIDFront,
	DocumentKindCivilIDBack,
	DocumentKindOwnerProof,
	DocumentKindLicense,
	DocumentKindIBAN,
	DocumentKindArticles,
	DocumentKindSignatureAuth,
}

var documentKindLabels = map[DocumentKind]string{
	DocumentKindCivilIDFront:  "Civil ID (Front)",
	DocumentKindCivilIDBack:   "Civil ID (Back)",
	DocumentKindOwnerProof:    "Owner Proof",
	DocumentKindLicense:       "Business License",
	DocumentKindIBAN:          "IBAN Certificate",
	DocumentKindArticles:      "Articles of Association",
	DocumentKindSignatureAuth: "Signature Authorization",
}

// String returns the literal string for the kind.
func (k DocumentKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is known.
func (k DocumentKind) IsValid() bool {
	_, ok := documentKindLabels[k]
	return ok
}

// Label returns the human readable name shown to admins.
func (k DocumentKind) Label() string {
	if label, ok := documentKindLabels[k]; ok {
		return label
	}
	return string(k)
}

// ParseDocumentKind converts raw input into a DocumentKind.
func ParseDocumentKind(value string) (DocumentKind, error) {
	for _, candidate := range validDocumentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document kind %q", value)
}

// DocumentKinds returns the taxonomy in display order.
func DocumentKinds() []DocumentKind {
	out := make([]DocumentKind, len(validDocumentKinds))
	copy(out, validDocumentKinds)
	return out
}
