package pet

// Decay coefficients, points lost per hour without interaction.
const (
	HappinessDecayPerHour = 1.5
	HungerDecayPerHour    = 2.0
	ThirstDecayPerHour    = 2.0
	EnergyDecayPerHour    = 0.8

	// Rates applied to the whole window once it exceeds the thresholds.
	SlowRate          = 1.0
	FastRate          = 1.2
	FastestRate       = 1.5
	FastRateAfter     = 24.0
	FastestRateAfter  = 48.0
	FatigueThreshold  = 70
	FatigueExtraDecay = 1
)

// Death and vacation thresholds.
const (
	CriticalHoursToDeath = 24.0
	VacationAfterHours   = 72.0
	VacationVital        = 30
	VeryLowVital         = 5
	LethalZeroVitals     = 2
	CriticalWarnAfter    = 12.0
)

// Health classification thresholds on the lowest vital.
const (
	HealthyMin  = 50
	OKMin       = 30
	PoorMin     = 20
	VeryPoorMin = 10
)

// Care action effects.
const (
	FeedHunger       = 25
	FeedHappiness    = 5
	WaterThirst      = 25
	WaterHappiness   = 3
	WakeEnergy       = 15
	WakeHappiness    = 5
	WorkHappiness    = 5
	WorkFatigueHour  = 8
	MaxWorkHoursDay  = 10.0
	CoinsPerHour     = 5
	MinPaidWorkHours = 0.017
)

// Revival vitals.
const (
	VacationReturnVital = 50
	FreeReviveVital     = 50
	ChannelReviveVital  = 60
)
