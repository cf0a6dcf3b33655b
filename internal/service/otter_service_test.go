package service

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/pet"
	"github.com/glebk/otter-bot/internal/reminder"
)

var _ sync.Locker = (*OtterService)(nil)

func TestCreatePet(t *testing.T) {
	env := newTestEnv(t)

	u, err := env.svc.CreatePet(1, "  Буся ")
	if err != nil {
		t.Fatalf("CreatePet failed: %v", err)
	}
	if u.Pet.Name != "Буся" || !u.Pet.LastInteraction.Equal(t0) {
		t.Errorf("unexpected otter: %+v", u.Pet)
	}
	if u.Settings.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want the fallback zone", u.Settings.Timezone)
	}

	if _, err := env.svc.CreatePet(1, "Другая"); !errors.Is(err, domain.ErrUserExists) {
		t.Errorf("second CreatePet: got %v", err)
	}

	u, err = env.svc.CreatePet(2, "   ")
	if err != nil || u.Pet.Name != domain.DefaultPetName {
		t.Errorf("blank name: %v, %v", u, err)
	}

	if _, err := env.svc.GetUser(3); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("GetUser on unknown user: got %v", err)
	}
}

func TestFeedAppliesDecayFirst(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")
	env.edit(t, 1, func(u *domain.UserState) { u.Pet.SetVitals(40) })

	env.now = t0.Add(10 * time.Hour)
	res, err := env.svc.Feed(1)
	if err != nil {
		t.Fatalf("Feed failed: %v", err)
	}

	p := env.load(t, 1).Pet
	if p.Happiness != 30 || p.Hunger != 45 || p.Thirst != 20 || p.Energy != 32 {
		t.Errorf("vitals = %v, want [30 45 20 32]", p.Vitals())
	}
	if res.ReturnedFromVacation {
		t.Error("unexpected vacation return")
	}
	if stats, _ := env.stats.Get(1); stats.FeedEvents != 1 {
		t.Errorf("FeedEvents = %d, want 1", stats.FeedEvents)
	}
}

func TestCareOnDeadOtter(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")
	env.edit(t, 1, func(u *domain.UserState) { u.Pet.IsAlive = false })

	if _, err := env.svc.Feed(1); !errors.Is(err, domain.ErrPetDead) {
		t.Errorf("Feed: got %v", err)
	}
	if _, err := env.svc.StartWork(1); !errors.Is(err, domain.ErrPetDead) {
		t.Errorf("StartWork: got %v", err)
	}
	if stats, _ := env.stats.Get(1); stats.FeedEvents != 0 || stats.WorkSessions != 0 {
		t.Errorf("counters changed for a dead otter: %+v", stats)
	}
}

func TestCareEndsVacation(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")
	env.edit(t, 1, func(u *domain.UserState) {
		u.Pet.VacationMode = true
		u.Pet.SetVitals(30)
	})

	env.now = t0.Add(100 * time.Hour)
	res, err := env.svc.GiveWater(1)
	if err != nil {
		t.Fatalf("GiveWater failed: %v", err)
	}
	if !res.ReturnedFromVacation {
		t.Error("vacation return not reported")
	}

	u := env.load(t, 1)
	if u.Pet.VacationMode || u.Pet.Thirst != 55 {
		t.Errorf("unexpected otter: vacation %v thirst %d", u.Pet.VacationMode, u.Pet.Thirst)
	}
	if u.DailyStats["2024-06-07"].PetWaterGlasses != 1 {
		t.Errorf("pet glass not recorded: %+v", u.DailyStats)
	}
}

func TestSleepAndWake(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")

	if _, err := env.svc.PutToSleep(1); err != nil {
		t.Fatalf("PutToSleep failed: %v", err)
	}
	if _, err := env.svc.PutToSleep(1); !errors.Is(err, domain.ErrPetAsleep) {
		t.Errorf("second PutToSleep: got %v", err)
	}
	if _, err := env.svc.Feed(1); !errors.Is(err, domain.ErrPetAsleep) {
		t.Errorf("Feed while asleep: got %v", err)
	}

	env.now = t0.Add(8 * time.Hour)
	res, err := env.svc.WakeUp(1)
	if err != nil {
		t.Fatalf("WakeUp failed: %v", err)
	}
	if res.SleptMinutes != 480 {
		t.Errorf("SleptMinutes = %d, want 480", res.SleptMinutes)
	}
	if u := env.load(t, 1); u.Pet.IsAsleep() || u.DailyStats["2024-06-03"].PetSleepMinutes != 480 {
		t.Errorf("wake not persisted: %+v", u.Pet)
	}
	if stats, _ := env.stats.Get(1); stats.TotalSleepMinutes != 480 {
		t.Errorf("TotalSleepMinutes = %d, want 480", stats.TotalSleepMinutes)
	}
	if _, err := env.svc.WakeUp(1); !errors.Is(err, domain.ErrPetAwake) {
		t.Errorf("second WakeUp: got %v", err)
	}
}

func TestWorkShift(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")

	if _, err := env.svc.EndWork(1); !errors.Is(err, domain.ErrPetNotAtWork) {
		t.Errorf("EndWork before start: got %v", err)
	}

	start, err := env.svc.StartWork(1)
	if err != nil {
		t.Fatalf("StartWork failed: %v", err)
	}
	if start.RemainingHours != pet.MaxWorkHoursDay {
		t.Errorf("RemainingHours = %v", start.RemainingHours)
	}

	env.now = t0.Add(2 * time.Hour)
	end, err := env.svc.EndWork(1)
	if err != nil {
		t.Fatalf("EndWork failed: %v", err)
	}
	if end.Earned != 10 || end.Hours != 2 || end.RemainingHours != 8 {
		t.Errorf("shift = %+v", end.WorkShift)
	}

	u := env.load(t, 1)
	if u.Pet.Money != 10 || u.Pet.AtWork || u.WorkHoursByDate["2024-06-03"] != 2 {
		t.Errorf("shift not persisted: money %d at work %v hours %v", u.Pet.Money, u.Pet.AtWork, u.WorkHoursByDate)
	}
	if u.Pet.Fatigue != 16 {
		t.Errorf("Fatigue = %d, want 16", u.Pet.Fatigue)
	}
}

func TestWorkDailyLimit(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")
	env.edit(t, 1, func(u *domain.UserState) { u.WorkHoursByDate["2024-06-03"] = 10 })

	if _, err := env.svc.StartWork(1); !errors.Is(err, domain.ErrWorkLimitReached) {
		t.Errorf("StartWork over the limit: got %v", err)
	}

	env.now = t0.Add(24 * time.Hour)
	if _, err := env.svc.StartWork(1); err != nil {
		t.Errorf("StartWork on the next day: %v", err)
	}
}

func TestRevivePaths(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")
	ctx := context.Background()

	if _, err := env.svc.Revive(ctx, 1); !errors.Is(err, domain.ErrPetAlive) {
		t.Fatalf("Revive alive otter: got %v", err)
	}

	kill := func(u *domain.UserState) {
		u.Pet.IsAlive = false
		u.Pet.SetVitals(0)
		u.LastReminders[reminder.KeyDeath] = "2024-06-03"
	}

	env.edit(t, 1, kill)
	res, err := env.svc.Revive(ctx, 1)
	if err != nil || res.Kind != pet.ReviveFree {
		t.Fatalf("free revive = %+v, %v", res, err)
	}
	u := env.load(t, 1)
	if !u.Pet.IsAlive || u.Pet.Happiness != pet.FreeReviveVital || u.Pet.FreeRevivesLeft != 0 {
		t.Errorf("free revive not applied: %+v", u.Pet)
	}
	if _, ok := u.LastReminders[reminder.KeyDeath]; ok {
		t.Error("death marker not cleared")
	}
	if env.membership.calls != 0 {
		t.Error("free revive should not check membership")
	}

	env.edit(t, 1, kill)
	env.membership.err = errors.New("telegram is down")
	if _, err := env.svc.Revive(ctx, 1); !errors.Is(err, domain.ErrMembershipUnverified) {
		t.Errorf("failed check: got %v", err)
	}
	if env.load(t, 1).Pet.IsAlive {
		t.Error("otter revived without a verified membership")
	}

	env.membership.err = nil
	if _, err := env.svc.Revive(ctx, 1); !errors.Is(err, domain.ErrNotChannelMember) {
		t.Errorf("non member: got %v", err)
	}

	env.membership.member = true
	res, err = env.svc.Revive(ctx, 1)
	if err != nil || res.Kind != pet.ReviveChannel || res.User.Pet.Energy != pet.ChannelReviveVital {
		t.Errorf("channel revive = %+v, %v", res, err)
	}
}

func TestReviveFromVacation(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")
	env.edit(t, 1, func(u *domain.UserState) {
		u.Pet.VacationMode = true
		u.Pet.SetVitals(30)
	})

	res, err := env.svc.Revive(context.Background(), 1)
	if err != nil || res.Kind != pet.ReviveVacation {
		t.Fatalf("Revive = %+v, %v", res, err)
	}
	if p := env.load(t, 1).Pet; p.VacationMode || p.Hunger != pet.VacationReturnVital {
		t.Errorf("vacation revive not applied: %+v", p)
	}
}

func TestParseWaterNorm(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"2.5", 2.5, true},
		{"2,5", 2.5, true},
		{" 3 л", 3, true},
		{"2 литра", 2, true},
		{"10", 10, true},
		{"0.4", 0, false},
		{"11", 0, false},
		{"много", 0, false},
		{"NaN", 0, false},
		{"inf", 0, false},
		{"-Inf", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseWaterNorm(tt.input)
			if tt.ok != (err == nil) {
				t.Fatalf("err = %v, want ok=%v", err, tt.ok)
			}
			if !tt.ok && !errors.Is(err, domain.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseGlassVolume(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"250", 250, true},
		{"300 мл", 300, true},
		{"50", 50, true},
		{"1000ml", 1000, true},
		{"49", 0, false},
		{"1001", 0, false},
		{"стакан", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseGlassVolume(tt.input)
			if tt.ok != (err == nil) || got != tt.want {
				t.Errorf("got %d, %v; want %d ok=%v", got, err, tt.want, tt.ok)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")

	if _, err := env.svc.SetTimezone(1, "Mars/Olympus"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("bad timezone: got %v", err)
	}
	if _, err := env.svc.SetName(1, " "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("blank name: got %v", err)
	}

	if _, err := env.svc.SetTimezone(1, "Europe/Moscow"); err != nil {
		t.Fatalf("SetTimezone failed: %v", err)
	}
	if _, err := env.svc.SetName(1, "Плюх"); err != nil {
		t.Fatalf("SetName failed: %v", err)
	}
	if _, err := env.svc.SetWaterNorm(1, "2,5"); err != nil {
		t.Fatalf("SetWaterNorm failed: %v", err)
	}
	if _, err := env.svc.SetGlassVolume(1, "250 мл"); err != nil {
		t.Fatalf("SetGlassVolume failed: %v", err)
	}

	u := env.load(t, 1)
	if u.Settings.Timezone != "Europe/Moscow" || u.Pet.Name != "Плюх" || u.Settings.PetName != "Плюх" {
		t.Errorf("settings = %+v, name %q", u.Settings, u.Pet.Name)
	}
	if u.Settings.WaterNormLiters != 2.5 || !u.Settings.WaterNormSet || u.Settings.GlassVolumeML != 250 {
		t.Errorf("water settings = %+v", u.Settings)
	}
}

func TestOwnerSleepAcrossMidnight(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")

	if _, err := env.svc.WakeUpSelf(1); !errors.Is(err, domain.ErrNotSleeping) {
		t.Errorf("wake without bedtime: got %v", err)
	}

	env.now = time.Date(2024, 6, 3, 23, 0, 0, 0, time.UTC)
	if _, err := env.svc.GoToBed(1); err != nil {
		t.Fatalf("GoToBed failed: %v", err)
	}
	if !env.load(t, 1).Pet.IsAsleep() {
		t.Error("otter should go to bed with its owner")
	}

	env.now = time.Date(2024, 6, 4, 7, 0, 0, 0, time.UTC)
	res, err := env.svc.WakeUpSelf(1)
	if err != nil {
		t.Fatalf("WakeUpSelf failed: %v", err)
	}
	if res.Minutes != 480 {
		t.Errorf("Minutes = %d, want 480", res.Minutes)
	}

	u := env.load(t, 1)
	day := u.DailyStats["2024-06-04"]
	if day == nil || day.SleepMinutes != 480 || day.PetSleepMinutes != 480 {
		t.Errorf("sleep not recorded on the wake day: %+v", day)
	}
	if u.Pet.IsAsleep() {
		t.Error("otter should wake with its owner")
	}

	if _, err := env.svc.WakeUpSelf(1); !errors.Is(err, domain.ErrNotSleeping) {
		t.Errorf("second wake: got %v", err)
	}
	if stats, _ := env.stats.Get(1); stats.TotalSleepMinutes != 480 {
		t.Errorf("TotalSleepMinutes = %d, want 480", stats.TotalSleepMinutes)
	}
}

func TestOwnerSleepWhileOtterWorks(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")

	env.now = time.Date(2024, 6, 3, 23, 0, 0, 0, time.UTC)
	env.edit(t, 1, func(u *domain.UserState) {
		u.Pet.AtWork = true
		u.Pet.LastWorkStart = domain.At(env.now)
	})
	user, err := env.svc.GoToBed(1)
	if err != nil {
		t.Fatalf("GoToBed failed: %v", err)
	}
	if user.Pet.IsAsleep() || !user.Pet.AtWork {
		t.Fatal("working otter should stay at work")
	}

	env.now = time.Date(2024, 6, 4, 7, 0, 0, 0, time.UTC)
	res, err := env.svc.WakeUpSelf(1)
	if err != nil {
		t.Fatalf("WakeUpSelf failed: %v", err)
	}
	if res.Minutes != 480 {
		t.Errorf("Minutes = %d, want 480", res.Minutes)
	}

	day := env.load(t, 1).DailyStats["2024-06-04"]
	if day == nil || day.SleepMinutes != 480 || day.PetSleepMinutes != 0 {
		t.Errorf("otter at work must not be credited with sleep: %+v", day)
	}
}

func TestDrinkGlass(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")

	env.svc.DrinkGlass(1)
	res, err := env.svc.DrinkGlass(1)
	if err != nil {
		t.Fatalf("DrinkGlass failed: %v", err)
	}
	if math.Abs(res.Liters-0.6) > 1e-9 || res.Norm != domain.DefaultWaterNorm {
		t.Errorf("progress = %+v", res)
	}
}

func TestWeeklyStats(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")
	env.edit(t, 1, func(u *domain.UserState) {
		u.TodayStats("2024-05-20").SleepMinutes = 600
		u.TodayStats("2024-06-01").SleepMinutes = 420
		day := u.TodayStats("2024-06-02")
		day.SleepMinutes = 480
		day.WaterLiters = 2
		u.AdviceState.WeeklyAnswers["2024-06-02"] = true
	})

	report, err := env.svc.WeeklyStats(1)
	if err != nil {
		t.Fatalf("WeeklyStats failed: %v", err)
	}
	if len(report.Days) != 2 || report.Days[0].Date != "2024-06-01" || report.Days[1].Weekday != time.Sunday {
		t.Errorf("days = %+v", report.Days)
	}
	if report.SleepMinutes != 900 || report.AvgSleepHours != 7.5 || report.WaterLiters != 2 {
		t.Errorf("totals = %+v", report)
	}
	if !report.AskForSleepNorm || report.FollowedWeeks != 1 || report.AnsweredWeeks != 1 {
		t.Errorf("flags = %+v", report)
	}

	avg, err := env.svc.AnswerSleepNorm(1, true)
	if err != nil || avg != 7.5 {
		t.Fatalf("AnswerSleepNorm = %v, %v", avg, err)
	}
	if env.load(t, 1).Settings.SleepNormHours != 7.5 {
		t.Error("sleep norm not stored")
	}
}

func TestDailyAdviceOncePerDay(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")

	first, err := env.svc.DailyAdvice(1)
	if err != nil {
		t.Fatalf("DailyAdvice failed: %v", err)
	}
	if _, err := env.svc.DailyAdvice(1); !errors.Is(err, domain.ErrAdviceAlreadyShown) {
		t.Errorf("second request: got %v", err)
	}

	env.now = t0.Add(24 * time.Hour)
	second, err := env.svc.DailyAdvice(1)
	if err != nil {
		t.Fatalf("next day DailyAdvice failed: %v", err)
	}
	if first.ID == second.ID {
		t.Errorf("advice repeated within a week: %s", first.ID)
	}

	st := env.load(t, 1).AdviceState
	if st.LastAdviceDate != "2024-06-04" || st.FirstAdviceDate != "2024-06-03" {
		t.Errorf("advice state = %+v", st)
	}

	if err := env.svc.AnswerWeeklyAdvice(1, true); err != nil {
		t.Fatalf("AnswerWeeklyAdvice failed: %v", err)
	}
	if !env.load(t, 1).AdviceState.WeeklyAnswers["2024-06-04"] {
		t.Error("weekly answer not stored")
	}
}

func TestPlayAndBuyHobby(t *testing.T) {
	env := newTestEnv(t)
	env.newOtter(t, 1, "Буся")

	outcome, err := env.svc.PlayHobby(1, "walk")
	if err != nil {
		t.Fatalf("PlayHobby failed: %v", err)
	}
	if outcome.Level != 1 || outcome.Streak != 1 {
		t.Errorf("outcome = %+v", outcome)
	}
	if m := env.load(t, 1).Pet.HobbyMastery["walk"]; m == nil || m.TotalSessions != 1 {
		t.Errorf("mastery = %+v", m)
	}
	if stats, _ := env.stats.Get(1); stats.HobbySessions != 1 {
		t.Errorf("HobbySessions = %d, want 1", stats.HobbySessions)
	}

	if _, err := env.svc.PlayHobby(1, "drawing"); !errors.Is(err, domain.ErrHobbyLocked) {
		t.Errorf("locked hobby: got %v", err)
	}
	if _, err := env.svc.PlayHobby(1, "chess"); !errors.Is(err, domain.ErrHobbyNotFound) {
		t.Errorf("unknown hobby: got %v", err)
	}
	if _, err := env.svc.BuyHobby(1, "drawing"); !errors.Is(err, domain.ErrNotEnoughMoney) {
		t.Errorf("poor otter: got %v", err)
	}

	env.edit(t, 1, func(u *domain.UserState) { u.Pet.Money = 30 })
	if _, err := env.svc.BuyHobby(1, "drawing"); err != nil {
		t.Fatalf("BuyHobby failed: %v", err)
	}

	shop, err := env.svc.Hobbies(1)
	if err != nil {
		t.Fatalf("Hobbies failed: %v", err)
	}
	if len(shop.Owned) != 2 || len(shop.Locked) != 0 || shop.User.Pet.Money != 0 {
		t.Errorf("shop = owned %d locked %d money %d", len(shop.Owned), len(shop.Locked), shop.User.Pet.Money)
	}

	views, err := env.svc.HobbyStats(1)
	if err != nil || len(views) != 1 || views[0].Hobby.ID != "walk" {
		t.Errorf("HobbyStats = %+v, %v", views, err)
	}
}
