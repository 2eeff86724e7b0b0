package adminsync

import (
	"github.com/chamber122/chamber122-backend/pkg/enums"
)

// Decision names the rule Resolve applied.
type Decision string

const (
	DecisionBackendOnly          Decision = "backend_only"
	DecisionOverrideOffline      Decision = "override_offline"
	DecisionBackendAuthoritative Decision = "backend_authoritative"
	DecisionAgreed               Decision = "agreed"
)

// Resolution is the outcome of reconciling one account.
type Resolution struct {
	UserID   string              `json:"user_id,omitempty"`
	Status   enums.AccountStatus `json:"status"`
	Backend  enums.AccountStatus `json:"backend"`
	Local    enums.AccountStatus `json:"local,omitempty"`
	Decision Decision            `json:"decision"`
}

// Discrepancy reports whether a local override lost to the backend.
func (r Resolution) Discrepancy() bool {
	return r.Decision == DecisionBackendAuthoritative
}

// BackendStatus derives the account status a business listing implies:
// an explicit status wins, otherwise an active listing is approved and
// anything else is pending.
func BackendStatus(b RemoteBusiness) enums.AccountStatus {
	if b.Status != "" {
		if status, err := enums.ParseAccountStatus(b.Status); err == nil {
			return status
		}
	}
	if b.IsActive != nil && *b.IsActive {
		return enums.AccountStatusApproved
	}
	return enums.AccountStatusPending
}

// Resolve picks the effective status.
//
//	local override | api available | result
//	none           | any           | backend
//	set            | no            | local
//	set, != backend| yes           | backend
//	set, == backend| yes           | backend
func Resolve(backend, local enums.AccountStatus, apiAvailable bool) Resolution {
	res := Resolution{Backend: backend, Local: local}
	switch {
	case local == "":
		res.Status, res.Decision = backend, DecisionBackendOnly
	case !apiAvailable:
		res.Status, res.Decision = local, DecisionOverrideOffline
	case local != backend:
		res.Status, res.Decision = backend, DecisionBackendAuthoritative
	default:
		res.Status, res.Decision = backend, DecisionAgreed
	}
	return res
}
