package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/hobby"
	"github.com/glebk/otter-bot/internal/pet"
	"github.com/glebk/otter-bot/internal/service"
	"github.com/glebk/otter-bot/internal/social"
)

// Callback data is "<action>" or "coop:<activity>:<friend id|all|solo>".
const (
	actionCoop  = "coop"
	actionDrink = "drink"
	coopAll     = "all"
	coopSolo    = "solo"

	maxCoopChoices = 10
)

const genericError = "❌ Что-то пошло не так. Попробуй позже."

var weekdayNames = [7]string{"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота"}

var errorTexts = []struct {
	err  error
	text string
}{
	{domain.ErrUserNotFound, "Сначала нажми /start и создай свою выдру 🦦"},
	{domain.ErrUserExists, "У тебя уже есть выдра 🦦"},
	{domain.ErrPetDead, "💀 Твоя выдра умерла... Используй /revive, чтобы вернуть её."},
	{domain.ErrPetAlive, "Выдра жива и здорова, воскрешать её не нужно 🦦"},
	{domain.ErrPetAsleep, "🦦 Выдра сейчас спит! Сначала разбуди её."},
	{domain.ErrPetAwake, "Выдра и так не спит 🦦"},
	{domain.ErrPetAtWork, "Выдра сейчас на работе 💼"},
	{domain.ErrPetNotAtWork, "Выдра сейчас не на работе."},
	{domain.ErrPetOnVacation, "Выдра в отпуске 🏖️"},
	{domain.ErrWorkLimitReached, fmt.Sprintf("Выдра уже отработала %.0f часов сегодня. Пусть отдохнёт! 😌", pet.MaxWorkHoursDay)},
	{domain.ErrHobbyNotFound, "Такого хобби нет в магазине."},
	{domain.ErrHobbyLocked, "Это хобби ещё не куплено. Загляни в «Купить хобби» 💰"},
	{domain.ErrHobbyOwned, "Это хобби уже куплено 🎨"},
	{domain.ErrNotEnoughMoney, "Не хватает монет 💰 Отправь выдру на работу!"},
	{domain.ErrSelfFriendship, "Нельзя добавить в друзья самого себя 🙂"},
	{domain.ErrAlreadyFriends, "Вы уже друзья! 👥"},
	{domain.ErrNotFriends, "Вы пока не друзья. Обменяйтесь кодами дружбы 🔗"},
	{domain.ErrTooManyParticipants, fmt.Sprintf("В совместной активности может быть не больше %d выдр.", social.MaxParticipants)},
	{domain.ErrMembershipUnverified, "Не удалось проверить подписку на канал. Попробуй позже."},
	{domain.ErrNotChannelMember, "Чтобы воскресить выдру, подпишись на канал и попробуй снова."},
	{domain.ErrAdviceAlreadyShown, "Сегодня ты уже получил(а) совет дня. Приходи завтра! 💡"},
	{domain.ErrNotSleeping, "Не удалось посчитать сон: сначала нажми «Ложусь спать»."},
	{domain.ErrInvalidInput, "Не получилось разобрать ввод. Попробуй ещё раз."},
}

// errorText turns a service error into a reply. known is false for
// unexpected errors, which the caller should log.
func errorText(err error) (text string, known bool) {
	var perr *service.ParticipantError
	if errors.As(err, &perr) {
		inner, _ := errorText(perr.Err)
		name := perr.PetName
		if name == "" {
			name = fmt.Sprintf("друга %d", perr.UserID)
		}
		return fmt.Sprintf("Выдра %s не может присоединиться.\n%s", name, inner), true
	}

	for _, e := range errorTexts {
		if errors.Is(err, e.err) {
			return e.text, true
		}
	}
	return genericError, false
}

func coopData(activity domain.ActivityType, target string) string {
	return actionCoop + ":" + string(activity) + ":" + target
}

func parseCoopData(data string) (domain.ActivityType, string, bool) {
	parts := strings.Split(data, ":")
	if len(parts) != 3 || parts[0] != actionCoop || parts[2] == "" {
		return "", "", false
	}
	return domain.ActivityType(parts[1]), parts[2], true
}

// parseFriendCode reads a friend code, which is the friend's Telegram id
func parseFriendCode(text string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("friend code %q: %w", text, domain.ErrInvalidInput)
	}
	return id, nil
}

func formatDuration(minutes int) string {
	return fmt.Sprintf("%dч %dм", minutes/60, minutes%60)
}

func vitalsText(p *domain.PetState) string {
	return fmt.Sprintf(
		"😊 Счастье: %d/100\n🍽️ Сытость: %d/100\n💧 Вода: %d/100\n⚡ Энергия: %d/100\n😮‍💨 Усталость: %d/100\n💰 Монеты: %d",
		p.Happiness, p.Hunger, p.Thirst, p.Energy, p.Fatigue, p.Money,
	)
}

func activityText(p *domain.PetState) string {
	switch {
	case !p.IsAlive:
		return "💀 Выдра умерла"
	case p.VacationMode:
		return "🏖️ Выдра в отпуске"
	case p.AtWork:
		return "💼 Выдра на работе"
	case p.IsAsleep():
		return "😴 Выдра спит"
	}
	return "🦦 Выдра бодрствует"
}

func formatStatus(r *service.StatusReport) string {
	p := &r.User.Pet
	var b strings.Builder
	fmt.Fprintf(&b, "🦦 %s, %d дн.\n%s\n\n", p.Name, p.AgeDays, activityText(p))
	b.WriteString(vitalsText(p))
	fmt.Fprintf(&b, "\n\n%s", r.Message)

	if r.Decay.EnteredVacation {
		b.WriteString("\n\n🏖️ Тебя долго не было, и выдра уехала в отпуск. Любое действие вернёт её домой.")
	}
	if r.Decay.Died {
		b.WriteString("\n\n💀 Выдра не дождалась тебя... Используй /revive.")
	}
	for _, w := range r.Warnings {
		b.WriteString("\n⚠️ " + w)
	}
	return b.String()
}

// careText is the reply to a simple care action
func careText(headline string, res *service.CareResult) string {
	text := headline + "\n\n" + vitalsText(&res.User.Pet)
	if res.ReturnedFromVacation {
		text = "🏖️ Выдра вернулась из отпуска! Как же она скучала.\n\n" + text
	}
	return text
}

func sleepQuality(minutes int) string {
	switch hours := minutes / 60; {
	case hours >= 7:
		return "Отличный сон! 👍"
	case hours >= 6:
		return "Неплохо, но можно больше."
	}
	return "Мало для полноценного отдыха."
}

func formatWeekly(r *service.WeeklyReport) string {
	lines := []string{"📊 Твоя статистика за последние 7 дней:"}
	if len(r.Days) == 0 {
		lines = append(lines,
			"\n📝 Данных за эту неделю пока нет.",
			"Начни записывать свой сон и воду через «Действия с выдрой»!")
		return strings.Join(lines, "\n")
	}

	settings := r.User.Settings
	glass := float64(settings.GlassVolumeML) / 1000

	for _, day := range r.Days {
		s := day.Stats
		lines = append(lines, "\n📅 "+weekdayNames[day.Weekday]+":")
		if s.SleepMinutes > 0 {
			line := "   💤 Ты спал(а) " + formatDuration(s.SleepMinutes)
			if s.PetSleepMinutes > 0 {
				line += ", выдра спала " + formatDuration(s.PetSleepMinutes)
			}
			lines = append(lines, line+".")
		}
		if s.WaterLiters > 0 {
			line := fmt.Sprintf("   💧 Ты выпил(а) %.2fл", s.WaterLiters)
			if s.PetWaterGlasses > 0 {
				line += fmt.Sprintf(", выдра выпила %d стаканов (%.2fл)", s.PetWaterGlasses, float64(s.PetWaterGlasses)*glass)
			}
			lines = append(lines, line+".")
			if s.WaterLiters >= settings.WaterNormLiters {
				lines = append(lines, fmt.Sprintf("   ✅ Норма воды достигнута (%gл/день)", settings.WaterNormLiters))
			} else {
				lines = append(lines, fmt.Sprintf("   ⚠️ До нормы осталось %.2fл (%gл/день)", settings.WaterNormLiters-s.WaterLiters, settings.WaterNormLiters))
			}
		}
	}

	lines = append(lines, "\n📈 Итоги за неделю:")
	if r.SleepMinutes > 0 {
		lines = append(lines, "\n💤 Сон:", fmt.Sprintf("   Ты спал(а) %.1f часов за неделю.", float64(r.SleepMinutes)/60))
		if r.PetSleep > 0 {
			lines = append(lines, fmt.Sprintf("   Выдра спала %.1f часов.", float64(r.PetSleep)/60))
		}
		lines = append(lines, fmt.Sprintf("   В среднем %.1f часов за ночь.", r.AvgSleepHours))
		if settings.SleepNormHours > 0 {
			lines = append(lines, fmt.Sprintf("   Твоя норма: %.1f часов.", settings.SleepNormHours))
		}
	}
	if r.WaterLiters > 0 {
		weekNorm := settings.WaterNormLiters * service.WeekDays
		lines = append(lines, "\n💧 Вода:", fmt.Sprintf("   Ты выпил(а) %.2fл за неделю.", r.WaterLiters))
		if r.PetGlasses > 0 {
			lines = append(lines, fmt.Sprintf("   Выдра выпила %d стаканов (%.2fл).", r.PetGlasses, float64(r.PetGlasses)*glass))
		}
		lines = append(lines, fmt.Sprintf("   Норма: %gл/день (%.1fл/неделю).", settings.WaterNormLiters, weekNorm))
		if r.WaterLiters >= weekNorm {
			lines = append(lines, "   ✅ Норма за неделю достигнута!")
		} else {
			lines = append(lines, fmt.Sprintf("   ⚠️ Осталось %.2fл до нормы за неделю.", weekNorm-r.WaterLiters))
		}
	}
	if r.AnsweredWeeks > 0 {
		lines = append(lines, "\n💡 Соблюдение советов:",
			fmt.Sprintf("   Ты соблюдал(а) советы %d из %d недель.", r.FollowedWeeks, r.AnsweredWeeks))
	}
	return strings.Join(lines, "\n")
}

func formatActivityStats(st *domain.ActivityStats) string {
	return fmt.Sprintf(
		"🏅 За всё время:\n😴 Сон: %s\n🍽️ Кормлений: %d\n💧 Стаканов воды: %d\n💼 Смен на работе: %d\n🎨 Занятий хобби: %d",
		formatDuration(st.TotalSleepMinutes), st.FeedEvents, st.WaterEvents, st.WorkSessions, st.HobbySessions,
	)
}

func formatSettings(u *domain.UserState) string {
	s := u.Settings
	sleepNorm := "не задана"
	if s.SleepNormHours > 0 {
		sleepNorm = fmt.Sprintf("%.1f ч", s.SleepNormHours)
	}
	return fmt.Sprintf(
		"📋 Твои текущие настройки:\n\nИмя выдры: %s\nЧасовой пояс: %s\nВозраст выдры: %d дней\nНорма воды: %gл\nОбъём стакана: %d мл\nНорма сна: %s",
		u.Pet.Name, s.Timezone, u.Pet.AgeDays, s.WaterNormLiters, s.GlassVolumeML, sleepNorm,
	)
}

func formatHobbyOutcome(o *hobby.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎨 %s\n\n", o.Hobby.Title)
	if o.Event.Text != "" {
		fmt.Fprintf(&b, "%s %s\n\n", o.Event.Icon, o.Event.Text)
	}
	fmt.Fprintf(&b, "😊 Счастье: %+d\n😮‍💨 Усталость: -%d\n⚡ Энергия: -%d\n", o.Happiness, o.Recovery, o.EnergyCost)
	fmt.Fprintf(&b, "\nМастерство: %s (ур. %d)", hobby.Stars(o.Level), o.Level)
	if o.Streak > 1 {
		fmt.Fprintf(&b, "\n🔥 Серия: %d дн. подряд", o.Streak)
	}
	if o.LevelUp {
		fmt.Fprintf(&b, "\n\n🎉 Новый уровень мастерства: %d!", o.Level)
	}
	return b.String()
}

func formatMastery(views []service.MasteryView) string {
	if len(views) == 0 {
		return "🎨 Выдра ещё не занималась хобби. Загляни в «Хобби / тренировка»!"
	}
	lines := []string{"🎨 Мастерство выдры:\n"}
	for _, v := range views {
		m := v.Mastery
		line := fmt.Sprintf("%s %s\n   занятий: %d", v.Hobby.Title, hobby.Stars(m.Level), m.TotalSessions)
		if m.Streak > 1 {
			line += fmt.Sprintf(", серия: %d дн.", m.Streak)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatRecommendations(recs []hobby.Recommendation) string {
	if len(recs) == 0 {
		return "🦦 Выдра в отличной форме! Любое хобби пойдёт ей на пользу."
	}
	lines := []string{"💡 Что посоветовать выдре:\n"}
	for _, r := range recs {
		lines = append(lines, "• "+r.Text)
	}
	return strings.Join(lines, "\n")
}

func formatShop(shop *service.HobbyShop) string {
	if len(shop.Locked) == 0 {
		return "🎉 У выдры уже есть все хобби!"
	}
	lines := []string{fmt.Sprintf("🛍️ Магазин хобби\nУ выдры %d монет.\n", shop.User.Pet.Money)}
	for _, h := range shop.Locked {
		line := fmt.Sprintf("%s: %d монет", h.Title, h.Price)
		if h.Description != "" {
			line += "\n   " + h.Description
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func formatFriends(views []service.FriendView) string {
	if len(views) == 0 {
		return "👥 У тебя пока нет друзей. Поделись своим кодом дружбы 🔗"
	}
	lines := []string{fmt.Sprintf("👥 Твои друзья (%d):\n", len(views))}
	for _, v := range views {
		lines = append(lines, fmt.Sprintf("🦦 %s (код %d)\n   %s, совместных активностей: %d",
			v.PetName, v.UserID, social.Stars(v.Friendship.FriendshipLevel), v.Friendship.TotalSessionsTogether))
	}
	return strings.Join(lines, "\n")
}

func formatFriendInfo(v *service.FriendView, loc *time.Location) string {
	f := v.Friendship
	bonus := social.Bonuses(f.FriendshipLevel)
	text := fmt.Sprintf(
		"🦦 %s\n\nДружба: %s (ур. %d)\nСовместных активностей: %d\nБонус к счастью: x%.2f\nБонус к монетам: x%.2f",
		v.PetName, social.Stars(f.FriendshipLevel), f.FriendshipLevel, f.TotalSessionsTogether, bonus.Happiness, bonus.Money,
	)
	if f.FirstMetDate.IsSet() {
		text += "\nДружите с " + f.FirstMetDate.In(loc).Format("02.01.2006")
	}
	return text
}

func formatAchievements(list []social.Achievement) string {
	var b strings.Builder
	for _, a := range list {
		fmt.Fprintf(&b, "\n🏆 Достижение: %s\n%s (+%d счастья, +%d монет)", a.Title, a.Description, a.RewardHappiness, a.RewardCoins)
	}
	return b.String()
}

func formatCoop(r *service.CoopResult) string {
	var b strings.Builder
	b.WriteString(r.Profile.Title + "\n\n")

	names := make([]string, 0, len(r.Participants))
	for _, u := range r.Participants {
		names = append(names, u.Pet.Name)
	}
	fmt.Fprintf(&b, "Участники: %s\n", strings.Join(names, ", "))
	if len(r.Participants) > 1 {
		fmt.Fprintf(&b, "Уровень дружбы: %d\n", r.Level)
	}
	if r.Event.Text != "" {
		fmt.Fprintf(&b, "\n%s %s\n", r.Event.Icon, r.Event.Text)
	}

	fmt.Fprintf(&b, "\nКаждая выдра получила:\n😊 Счастье: %+d", r.Gains.Happiness)
	if r.Gains.Money != 0 {
		fmt.Fprintf(&b, "\n💰 Монеты: %+d", r.Gains.Money)
	}
	if r.Gains.Hunger != 0 {
		fmt.Fprintf(&b, "\n🍽️ Сытость: %+d", r.Gains.Hunger)
	}
	if r.Gains.Recovery != 0 {
		fmt.Fprintf(&b, "\n😮‍💨 Усталость: -%d", r.Gains.Recovery)
	}

	for _, f := range r.LeveledUp {
		fmt.Fprintf(&b, "\n\n🎉 Дружба с %s выросла до уровня %d! %s", f.PetName, f.Friendship.FriendshipLevel, social.Stars(f.Friendship.FriendshipLevel))
	}
	return b.String()
}
