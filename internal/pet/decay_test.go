package pet

import (
	"testing"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestPet(h, hunger, thirst, energy int, lastInteraction time.Time) *domain.PetState {
	p := domain.NewPetState("Тест")
	p.Happiness = h
	p.Hunger = hunger
	p.Thirst = thirst
	p.Energy = energy
	p.LastInteraction = domain.At(lastInteraction)
	return &p
}

func TestDegradeTenHours(t *testing.T) {
	p := newTestPet(40, 40, 40, 40, testNow.Add(-10*time.Hour))

	res := Degrade(p, testNow)

	if res.Rate != SlowRate {
		t.Errorf("Rate = %v, want %v", res.Rate, SlowRate)
	}
	if p.Happiness != 25 || p.Hunger != 20 || p.Thirst != 20 || p.Energy != 32 {
		t.Errorf("got happiness=%d hunger=%d thirst=%d energy=%d, want 25/20/20/32",
			p.Happiness, p.Hunger, p.Thirst, p.Energy)
	}
	if !p.LastInteraction.Equal(testNow) {
		t.Errorf("LastInteraction = %v, want %v", p.LastInteraction.Time, testNow)
	}
	if p.CriticalStateSince.IsSet() {
		t.Error("CriticalStateSince should be unset outside CRITICAL")
	}
}

func TestDegradeIsIdempotentForSameInstant(t *testing.T) {
	p := newTestPet(70, 60, 55, 80, testNow.Add(-3*time.Hour))

	Degrade(p, testNow)
	first := *p

	res := Degrade(p, testNow)
	if res.Hours != 0 {
		t.Errorf("second call should not see elapsed time, got %v hours", res.Hours)
	}
	if p.Vitals() != first.Vitals() || p.IsAlive != first.IsAlive || p.VacationMode != first.VacationMode {
		t.Errorf("second call changed state: before %+v after %+v", first.Vitals(), p.Vitals())
	}
}

func TestDegradeClampsVitals(t *testing.T) {
	p := newTestPet(5, 3, 2, 1, testNow.Add(-20*time.Hour))

	Degrade(p, testNow)

	for i, v := range p.Vitals() {
		if v < domain.MinVital || v > domain.MaxVital {
			t.Errorf("vital %d out of range: %d", i, v)
		}
	}
	if !p.CriticalStateSince.Equal(testNow) {
		t.Errorf("CriticalStateSince = %v, want %v", p.CriticalStateSince.Time, testNow)
	}
}

func TestDegradeRates(t *testing.T) {
	tests := []struct {
		hours float64
		want  float64
	}{
		{1, SlowRate},
		{24, SlowRate},
		{25, FastRate},
		{48, FastRate},
		{49, FastestRate},
	}
	for _, tt := range tests {
		if got := DecayRate(tt.hours); got != tt.want {
			t.Errorf("DecayRate(%v) = %v, want %v", tt.hours, got, tt.want)
		}
	}
}

func TestDegradeFatiguePenalty(t *testing.T) {
	p := newTestPet(80, 80, 80, 80, testNow.Add(-1*time.Hour))
	p.Fatigue = 71

	Degrade(p, testNow)

	// 80 - 1.5 = 78.5 -> 78, then -1
	if p.Happiness != 77 {
		t.Errorf("Happiness = %d, want 77", p.Happiness)
	}
	// 80 - 0.8 = 79.2 -> 79, then -1
	if p.Energy != 78 {
		t.Errorf("Energy = %d, want 78", p.Energy)
	}
}

func TestDegradeDeathAfterDayInCritical(t *testing.T) {
	p := newTestPet(3, 0, 0, 3, testNow.Add(-1*time.Hour))
	p.CriticalStateSince = domain.At(testNow.Add(-25 * time.Hour))

	res := Degrade(p, testNow)

	if !res.Died || p.IsAlive {
		t.Fatal("pet should die after 24h in CRITICAL with two exhausted vitals")
	}
	if p.CriticalStateSince.IsSet() {
		t.Error("CriticalStateSince should be cleared on death")
	}
	if Classify(p) != HealthDead {
		t.Errorf("Classify = %v, want %v", Classify(p), HealthDead)
	}
}

func TestDegradeSurvivesShortCritical(t *testing.T) {
	p := newTestPet(3, 0, 0, 3, testNow.Add(-1*time.Hour))
	p.CriticalStateSince = domain.At(testNow.Add(-10 * time.Hour))

	Degrade(p, testNow)

	if !p.IsAlive {
		t.Fatal("pet should survive less than 24h in CRITICAL")
	}
	if !p.CriticalStateSince.Equal(testNow.Add(-10 * time.Hour)) {
		t.Error("CriticalStateSince should keep its first entry time")
	}
}

func TestDegradeDeadPetIsFrozen(t *testing.T) {
	p := newTestPet(10, 0, 0, 10, testNow.Add(-100*time.Hour))
	p.IsAlive = false

	Degrade(p, testNow)

	if p.Happiness != 10 || p.Energy != 10 {
		t.Error("dead pet vitals must not change")
	}
	if !p.LastInteraction.Equal(testNow.Add(-100 * time.Hour)) {
		t.Error("dead pet LastInteraction must not change")
	}

	// Death is monotonic: further calls never revive.
	for i := 0; i < 3; i++ {
		Degrade(p, testNow.Add(time.Duration(i)*time.Hour))
		if p.IsAlive {
			t.Fatal("Degrade revived a dead pet")
		}
	}
}

func TestDegradeEntersVacation(t *testing.T) {
	p := newTestPet(90, 90, 90, 90, testNow.Add(-73*time.Hour))

	res := Degrade(p, testNow)

	if !res.EnteredVacation || !p.VacationMode {
		t.Fatal("pet should enter vacation after more than 72h")
	}
	if !p.IsAlive {
		t.Fatal("vacation pet should be alive")
	}
	for i, v := range p.Vitals() {
		if v != VacationVital {
			t.Errorf("vital %d = %d, want %d", i, v, VacationVital)
		}
	}
	if p.CriticalStateSince.IsSet() {
		t.Error("CriticalStateSince should be cleared in vacation")
	}

	// Vacation pets do not decay.
	before := p.Vitals()
	Degrade(p, testNow.Add(200*time.Hour))
	if p.Vitals() != before {
		t.Error("vacation pet decayed")
	}
}

func TestDegradeLongAbsenceKillsSickPet(t *testing.T) {
	p := newTestPet(8, 12, 15, 20, testNow.Add(-80*time.Hour))

	res := Degrade(p, testNow)

	if !res.Died || p.IsAlive {
		t.Fatal("pet already in CRITICAL should die after a long absence")
	}
	if p.VacationMode {
		t.Error("dead pet should not be in vacation")
	}
}

func TestDegradeWithoutLastInteraction(t *testing.T) {
	p := newTestPet(40, 40, 40, 40, time.Time{})

	Degrade(p, testNow)

	if p.Vitals() != [4]int{40, 40, 40, 40} {
		t.Errorf("vitals changed: %v", p.Vitals())
	}
	if !p.LastInteraction.Equal(testNow) {
		t.Error("LastInteraction should be set to now")
	}
}

func TestDegradeFutureInteractionIsNoop(t *testing.T) {
	p := newTestPet(40, 40, 40, 40, testNow.Add(time.Hour))

	Degrade(p, testNow)

	if p.Vitals() != [4]int{40, 40, 40, 40} {
		t.Errorf("vitals changed: %v", p.Vitals())
	}
}
