package plant

// TickTurbine advances the secondary-system state machine one control
// tick. Transitions in and out of operation are driven by thermal
// power compared against two hysteresis bands (start high, stop low)
// so the machine cannot chatter at a single boundary; the
// intermediate states complete on ramp arrival.
func TickTurbine(s *State) {
	switch s.Turbine {
	case TurbineIdle:
		if s.ThermalKW >= TurbineStartKW {
			s.Turbine = TurbineStarting
		}
	case TurbineStarting:
		if s.ThermalKW < TurbineStopKW {
			s.Turbine = TurbineShuttingDown
			break
		}
		s.TurbineSpeed += RampUpStep
		if s.TurbineSpeed >= 100 {
			s.TurbineSpeed = 100
			s.Turbine = TurbineRunning
		}
	case TurbineRunning:
		if s.ThermalKW < TurbineStopKW {
			s.Turbine = TurbineShuttingDown
		}
	case TurbineShuttingDown:
		s.TurbineSpeed -= RampDownStep
		if s.TurbineSpeed <= 0 {
			s.TurbineSpeed = 0
			s.Turbine = TurbineIdle
		}
	}
}

// TickHumidifiers rederives the humidifier commands. The steam
// generator pair follows the shim and regulating rods; the cooling
// tower quad follows thermal power. Both use hysteresis so a value
// hovering at the threshold does not flap the relays.
func TickHumidifiers(s *State) {
	shimOn, regOn := HumidSGRodThreshold, HumidSGRodThreshold
	if s.HumidSG {
		shimOn -= HumidSGHysteresis
		regOn -= HumidSGHysteresis
	}
	s.HumidSG = s.Rods[RodShim].Actual >= shimOn && s.Rods[RodRegulating].Actual >= regOn

	ctOn := HumidCTThermalKW
	if s.HumidCT {
		ctOn -= HumidCTHysteresis
	}
	s.HumidCT = s.ThermalKW >= ctOn
}
