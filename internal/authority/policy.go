package authority

// Policy decides what a successful verification grants. It is a strategy
// hook so a real KYC backend can replace the defaults without touching the
// state machine in the service.
type Policy interface {
	// Grants returns the capability set, risk tier, and compliance flags
	// for a principal whose identity fields validated.
	Grants(principalID string, fields map[string]string) ([]Capability, RiskTier, []string)
}

// RequiredFields is the fixed set a submission must carry. A missing field
// rejects the submission outright.
var RequiredFields = []string{"name", "date_of_birth", "national_id", "address"}

// DefaultPolicy grants the standard investor capability set at low risk.
type DefaultPolicy struct{}

func (DefaultPolicy) Grants(string, map[string]string) ([]Capability, RiskTier, []string) {
	return []Capability{CapabilityInvest, CapabilityTrade, CapabilityWithdraw, CapabilityTransfer},
		RiskTierLow,
		[]string{"accredited_investor", "aml_cleared"}
}

func missingFields(fields map[string]string) []string {
	var missing []string
	for _, name := range RequiredFields {
		if fields[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}
