package plant

// StartPump commands a pump on. Only an OFF pump starts, so repeated
// presses are harmless, and the primary pump is additionally gated on
// pressurizer pressure like the real panel. Returns the denial reason
// or "" when accepted (an already-running pump is not a denial).
func StartPump(s *State, id PumpID) string {
	if s.Emergency {
		return ReasonEmergency
	}
	if id == PumpPrimary && s.Pressure < InterlockMinPressure {
		return ReasonPressure
	}
	if s.Pumps[id].Status == PumpOff {
		s.Pumps[id].Status = PumpStarting
	}
	return ""
}

// StopPump commands a pump off. Only an ON pump begins stopping; a
// pump mid-start finishes its ramp before it can be commanded down.
func StopPump(s *State, id PumpID) {
	if s.Pumps[id].Status == PumpOn {
		s.Pumps[id].Status = PumpStopping
	}
}

// TickPumps advances every pump ramp one control tick. STARTING walks
// the ramp up and lands on ON exactly at 100; STOPPING walks down and
// lands on OFF at 0. No transition ever skips the adjacent state.
func TickPumps(s *State) {
	for i := range s.Pumps {
		p := &s.Pumps[i]
		switch p.Status {
		case PumpStarting:
			p.Ramp += RampUpStep
			if p.Ramp >= 100 {
				p.Ramp = 100
				p.Status = PumpOn
			}
		case PumpStopping:
			p.Ramp -= RampDownStep
			if p.Ramp <= 0 {
				p.Ramp = 0
				p.Status = PumpOff
			}
		}
	}
}
