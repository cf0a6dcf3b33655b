package reminder

import (
	"fmt"
	"time"

	"github.com/glebk/otter-bot/internal/advice"
	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/pet"
)

// Marker keys stored in UserState.LastReminders.
const (
	KeyAgeUpdate  = "age_update"
	KeyWorkLimit  = "work_limit_reached"
	KeyDeath      = "death_notification_sent"
	KeyWeekly     = "weekly_report"
	weeklyPrefix  = "weekly_report_"
	monthlyPrefix = "monthly_report_"
)

const (
	// Slots fire within this many minutes of their configured time.
	slotTolerance = 1

	weeklyHour        = 21
	monthlyAfterDays  = 30
	workNoticeEvery   = time.Hour
	workLimitHoursDay = pet.MaxWorkHoursDay
)

// Slot is a fixed daily reminder in the user's local time
type Slot struct {
	Key    string
	Hour   int
	Minute int
	Text   string
}

// Slots lists the daily reminders in firing order
var Slots = []Slot{
	{"water_morning", 10, 0, "🦦 Выдра просыпается и предлагает начать день со стаканчика воды. Пойдём выпьем вместе? 💧"},
	{"lunch", 13, 0, "🦦 Выдра хочет пообедать вместе с тобой. Давай накормим её и себя? 🍽️"},
	{"water_afternoon", 17, 0, "🦦 Выдра напоминает: сделаем перерыв и выпьем воды? Вместе веселее! 💧"},
	{"evening", 20, 0, "🦦 Выдра зевает и предлагает начать готовиться ко сну. Пора укладываться! 😴"},
	{"sleep", 22, 0, "🦦 Уже 22:00! Выдра напоминает: пора ложиться спать. Давай уложим её и сам(а) тоже отдохни? 😴💤"},
}

const sleepSlot = "sleep"

// Kind says how a notice is delivered and what marking it does
type Kind int

const (
	KindSlot Kind = iota
	KindAge
	KindWeekly
	KindMonthly
	KindWorkLimit
	KindDeath
)

// Notice is one due reminder for one user
type Notice struct {
	Kind  Kind
	Key   string
	Value string
	Text  string

	// Silent notices only update markers.
	Silent bool
	// MarkOnFailure marks the notice done even when delivery failed.
	MarkOnFailure bool
}

// Apply records the notice on the user
func (n Notice) Apply(u *domain.UserState) {
	if u.LastReminders == nil {
		u.LastReminders = make(map[string]string)
	}
	u.LastReminders[n.Key] = n.Value

	switch n.Kind {
	case KindAge:
		u.Pet.AgeDays++
	case KindMonthly:
		advice.ResetMonth(&u.AdviceState, n.Value)
	}
}

func slotByKey(key string) (Slot, bool) {
	for _, s := range Slots {
		if s.Key == key {
			return s, true
		}
	}
	return Slot{}, false
}

func withinMinutes(local time.Time, hour, minute int) bool {
	if local.Hour() != hour {
		return false
	}
	d := local.Minute() - minute
	return d >= -slotTolerance && d <= slotTolerance
}

// IsDue reports whether the time-based reminder key fires at nowUTC in loc.
// Keys without a fixed time are never due.
func IsDue(key string, nowUTC time.Time, loc *time.Location) bool {
	local := nowUTC.In(loc)

	if key == KeyWeekly {
		return local.Weekday() == time.Sunday && withinMinutes(local, weeklyHour, 0)
	}
	if s, ok := slotByKey(key); ok {
		return withinMinutes(local, s.Hour, s.Minute)
	}
	return false
}

// Evaluate returns every notice due for the user at nowUTC.
// It does not modify the user; callers Apply the notices they delivered.
func Evaluate(u *domain.UserState, nowUTC time.Time, fallback *time.Location) []Notice {
	loc := u.Location(fallback)
	local := nowUTC.In(loc)
	today := local.Format(domain.DateLayout)
	last := u.LastReminders
	p := &u.Pet

	var notices []Notice

	if last[KeyAgeUpdate] != today {
		notices = append(notices, Notice{Kind: KindAge, Key: KeyAgeUpdate, Value: today, Silent: true})
	}

	if IsDue(KeyWeekly, nowUTC, loc) && last[weeklyPrefix+today] != today {
		if summary := advice.Default().WeeklySummary(&u.AdviceState); summary != advice.NoWeeklyAdvice {
			notices = append(notices, Notice{
				Kind:  KindWeekly,
				Key:   weeklyPrefix + today,
				Value: today,
				Text:  fmt.Sprintf("📋 Еженедельный отчет по советам:\n\n%s\n\nКак успехи? Соблюдал ли ты советы?", summary),
			})
		}
	}

	if n, ok := monthlyNotice(u, today); ok {
		notices = append(notices, n)
	}

	if n, ok := workLimitNotice(u, nowUTC, today); ok {
		notices = append(notices, n)
	}

	if !p.IsAlive && last[KeyDeath] == "" {
		notices = append(notices, Notice{
			Kind:  KindDeath,
			Key:   KeyDeath,
			Value: nowUTC.UTC().Format(time.RFC3339),
			Text: fmt.Sprintf("💀 К сожалению, твоя выдра %s умерла...\n\n"+
				"Она не получила достаточной заботы и ушла в мир иной.\n\n"+
				"Но не расстраивайся! Ты можешь попробовать воскресить её командой /revive", p.Name),
		})
	}

	for _, s := range Slots {
		if last[s.Key] == today || !IsDue(s.Key, nowUTC, loc) {
			continue
		}
		if !p.IsAlive || p.VacationMode {
			continue
		}
		n := Notice{Kind: KindSlot, Key: s.Key, Value: today, Text: s.Text, MarkOnFailure: true}
		if s.Key == sleepSlot && p.IsAsleep() {
			n.Silent = true
		}
		notices = append(notices, n)
	}

	return notices
}

func monthlyNotice(u *domain.UserState, today string) (Notice, bool) {
	first := u.AdviceState.FirstAdviceDate
	if first == "" {
		return Notice{}, false
	}
	// Calendar dates parse as UTC midnight, so the difference is whole days.
	firstDate, err := time.Parse(domain.DateLayout, first)
	if err != nil {
		return Notice{}, false
	}
	todayDate, _ := time.Parse(domain.DateLayout, today)
	if int(todayDate.Sub(firstDate).Hours()/24) < monthlyAfterDays {
		return Notice{}, false
	}

	key := monthlyPrefix + first
	if u.LastReminders[key] == today {
		return Notice{}, false
	}
	summary := advice.Default().MonthlySummary(&u.AdviceState)
	if summary == advice.NoMonthlyAdvice {
		return Notice{}, false
	}
	return Notice{
		Kind:  KindMonthly,
		Key:   key,
		Value: today,
		Text:  "📊 Ежемесячный отчет по советам:\n\n" + summary,
	}, true
}

func workLimitNotice(u *domain.UserState, nowUTC time.Time, today string) (Notice, bool) {
	p := &u.Pet
	if !p.IsAlive || !p.AtWork || !p.LastWorkStart.IsSet() {
		return Notice{}, false
	}

	shift := nowUTC.Sub(p.LastWorkStart.Time).Hours()
	if u.WorkHoursByDate[today]+shift < workLimitHoursDay {
		return Notice{}, false
	}

	if prev, ok := domain.ParseTimestamp(u.LastReminders[KeyWorkLimit]); ok && nowUTC.Sub(prev) < workNoticeEvery {
		return Notice{}, false
	}
	return Notice{
		Kind:  KindWorkLimit,
		Key:   KeyWorkLimit,
		Value: nowUTC.UTC().Format(time.RFC3339),
		Text: "🦦 Выдра уже отработала 10 часов и ждёт тебя на лавочке! " +
			"Пора забирать её с работы. Она устала и хочет отдохнуть 💼😴",
	}, true
}
