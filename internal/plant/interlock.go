package plant

// Interlock reason strings shown to the operator. Each names the
// first thing to fix, not a generic refusal.
const (
	ReasonNotStarted    = "reactor not started"
	ReasonPressure      = "pressure"
	ReasonPrimaryPump   = "primary pump"
	ReasonSecondaryPump = "secondary pump"
	ReasonEmergency     = "emergency"
)

// InterlockResult is computed on demand and never stored beyond the
// current tick, so it cannot go stale.
type InterlockResult struct {
	Allowed bool
	Reasons []string
}

// Reason returns the first failed precondition, or "".
func (r InterlockResult) Reason() string {
	if len(r.Reasons) == 0 {
		return ""
	}
	return r.Reasons[0]
}

// CheckInterlock evaluates whether rod withdrawal is currently
// permitted: supervisory start flag set, pressurizer at or above the
// activation threshold, primary and secondary pumps fully ON, and no
// emergency latched. Every failed precondition is reported.
func CheckInterlock(s *State) InterlockResult {
	var reasons []string
	if !s.Started {
		reasons = append(reasons, ReasonNotStarted)
	}
	if s.Pressure < InterlockMinPressure {
		reasons = append(reasons, ReasonPressure)
	}
	if s.Pumps[PumpPrimary].Status != PumpOn {
		reasons = append(reasons, ReasonPrimaryPump)
	}
	if s.Pumps[PumpSecondary].Status != PumpOn {
		reasons = append(reasons, ReasonSecondaryPump)
	}
	if s.Emergency {
		reasons = append(reasons, ReasonEmergency)
	}
	return InterlockResult{Allowed: len(reasons) == 0, Reasons: reasons}
}

// RodLowerAllowed models the shutdown ordering constraint: the safety
// rod may only retract once the subordinate rods are already at rest.
// Lowering shim or regulating rods is always permitted.
func RodLowerAllowed(s *State, rod RodID) bool {
	if rod != RodSafety {
		return true
	}
	return s.Rods[RodShim].Target == RodMin && s.Rods[RodRegulating].Target == RodMin
}

// RaiseRod applies a rod-up command of the given steps, gated by the
// interlock. It returns the interlock result so callers can surface
// the denial reason.
func RaiseRod(s *State, rod RodID, steps int) InterlockResult {
	res := CheckInterlock(s)
	if !res.Allowed {
		return res
	}
	s.Rods[rod].Target = clampRod(s.Rods[rod].Target + steps*RodStep)
	return res
}

// LowerRod applies a rod-down command. Lowering is deliberately not
// interlock-gated (driving rods in is always safe) but the safety rod
// honors the retraction ordering.
func LowerRod(s *State, rod RodID, steps int) bool {
	if !RodLowerAllowed(s, rod) {
		return false
	}
	s.Rods[rod].Target = clampRod(s.Rods[rod].Target - steps*RodStep)
	return true
}
