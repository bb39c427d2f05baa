// Package validate assigns a contactability verdict and reason codes to
// unified leads. Validation failures are modeled outcomes, not errors.
package validate

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/outboundiq/leadpipe/internal/model"
)

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+'\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// disposableDomains lists known throwaway email providers. Addresses on
// these domains are never contactable campaign targets.
var disposableDomains = map[string]bool{
	"mailinator.com":    true,
	"guerrillamail.com": true,
	"10minutemail.com":  true,
	"tempmail.com":      true,
	"temp-mail.org":     true,
	"yopmail.com":       true,
	"trashmail.com":     true,
	"getnada.com":       true,
	"sharklasers.com":   true,
	"throwawaymail.com": true,
	"maildrop.cc":       true,
	"dispostable.com":   true,
	"fakeinbox.com":     true,
	"mintemail.com":     true,
}

// roleAliases are generic organizational local parts. Role addresses stay
// valid but are flagged for downstream copy targeting.
var roleAliases = map[string]bool{
	"info":      true,
	"contact":   true,
	"sales":     true,
	"support":   true,
	"admin":     true,
	"hello":     true,
	"help":      true,
	"service":   true,
	"team":      true,
	"office":    true,
	"general":   true,
	"inquiries": true,
}

// hardFailures marks the reason codes that flip a lead to invalid.
var hardFailures = map[string]bool{
	model.ReasonMissingEmail:       true,
	model.ReasonInvalidEmailFormat: true,
	model.ReasonDisposableEmail:    true,
	model.ReasonMissingCompanyName: true,
}

// Validate evaluates contactability rules in order, appending a reason
// code per failed rule, and sets the lead's validation status. Contact
// fields are never mutated.
func Validate(lead *model.UnifiedLead) {
	var reasons []string

	if lead.Email == "" {
		reasons = append(reasons, model.ReasonMissingEmail)
	} else {
		if !emailRe.MatchString(lead.Email) {
			reasons = append(reasons, model.ReasonInvalidEmailFormat)
		}
		if disposableDomains[emailDomain(lead.Email)] {
			reasons = append(reasons, model.ReasonDisposableEmail)
		}
		if IsRoleBased(lead.Email) {
			reasons = append(reasons, model.ReasonRoleBasedEmail)
		}
	}

	if lead.CompanyName == "" {
		reasons = append(reasons, model.ReasonMissingCompanyName)
	}

	if lead.FirstName == "" || lead.LastName == "" {
		reasons = append(reasons, model.ReasonMissingName)
	}

	lead.ValidationReasons = reasons
	lead.ValidationStatus = model.StatusValid
	for _, r := range reasons {
		if hardFailures[r] {
			lead.ValidationStatus = model.StatusInvalid
			break
		}
	}

	if lead.ValidationStatus == model.StatusInvalid {
		zap.L().Debug("validate: lead rejected",
			zap.String("company", lead.CompanyName),
			zap.Strings("reasons", reasons),
		)
	}
}

// IsRoleBased reports whether the address uses a generic organizational
// alias as its local part.
func IsRoleBased(email string) bool {
	local, _, found := strings.Cut(email, "@")
	if !found {
		return false
	}
	return roleAliases[strings.ToLower(local)]
}

// IsHardFailure reports whether a reason code invalidates a lead on its
// own.
func IsHardFailure(code string) bool {
	return hardFailures[code]
}

func emailDomain(email string) string {
	_, domain, found := strings.Cut(email, "@")
	if !found {
		return ""
	}
	return strings.ToLower(domain)
}
