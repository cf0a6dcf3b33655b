package bot

import (
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/service"
)

const timezonePrompt = "🌍 Напиши свой часовой пояс в формате Region/City.\n\n" +
	"Например: Europe/Moscow, Asia/Vladivostok, Asia/Yekaterinburg."

const waterNormPrompt = "💧 Напиши свою норму воды в литрах, например 2 или 2.5."

const waterSuggestionText = "💧 Обычно советуют около 30 мл воды на килограмм веса.\n\n" +
	"• до 60 кг: 2 литра\n" +
	"• 60-80 кг: 2.5 литра\n" +
	"• больше 80 кг: 3 литра\n\n" +
	"Выбери подходящий вариант:"

var presetWaterNorms = map[string]string{
	btnNorm2:  "2",
	btnNorm25: "2.5",
	btnNorm3:  "3",
}

// handleGoToBed records the owner's bedtime
func (b *Bot) handleGoToBed(message *tgbotapi.Message) {
	user, err := b.service.GoToBed(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "recording bedtime", err)
		return
	}

	text := "🌙 Спокойной ночи! Когда проснёшься, нажми «Проснулся»."
	if user.Pet.IsAsleep() {
		text += "\n😴 Выдра тоже свернулась клубочком рядом."
	}
	b.sendMessage(message.Chat.ID, text)
}

// handleWokeUp records the owner's wake-up and reports the night
func (b *Bot) handleWokeUp(message *tgbotapi.Message) {
	res, err := b.service.WakeUpSelf(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "recording wake-up", err)
		return
	}

	text := fmt.Sprintf("☀️ Доброе утро! Ты спал(а) %s.\n%s", formatDuration(res.Minutes), sleepQuality(res.Minutes))
	if norm := res.User.Settings.SleepNormHours; norm > 0 && float64(res.Minutes)/60 < norm {
		text += fmt.Sprintf("\nЭто меньше твоей нормы в %.1f ч.", norm)
	}
	b.sendMessage(message.Chat.ID, text)
}

// handleDrinkGlass adds one glass to the owner's water for today
func (b *Bot) handleDrinkGlass(chatID, userID int64) {
	res, err := b.service.DrinkGlass(userID)
	if err != nil {
		b.replyError(chatID, "recording water", err)
		return
	}

	text := fmt.Sprintf("💧 Записано! Сегодня ты выпил(а) %.2fл из %gл.", res.Liters, res.Norm)
	if res.Liters >= res.Norm {
		text += "\n✅ Норма воды на сегодня выполнена!"
	}
	b.sendMessage(chatID, text)
}

// handleWeeklyStats shows the last seven days and asks about the sleep norm
// when it is not known yet
func (b *Bot) handleWeeklyStats(message *tgbotapi.Message) {
	report, err := b.service.WeeklyStats(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "getting weekly stats", err)
		return
	}

	text := formatWeekly(report)
	if st, err := b.service.ActivityStats(message.From.ID); err != nil {
		log.Printf("Error getting activity stats: %v", err)
	} else if st != nil {
		text += "\n\n" + formatActivityStats(st)
	}
	b.sendMessage(message.Chat.ID, text)

	if report.AskForSleepNorm {
		b.setPending(message.From.ID, inputSleepNorm)
		b.sendWithKeyboard(message.Chat.ID,
			fmt.Sprintf("😴 В среднем ты спишь %.1f ч. Тебе этого хватает, чтобы высыпаться?", report.AvgSleepHours),
			yesNoKeyboard())
	}
}

func (b *Bot) handleSleepNormAnswer(message *tgbotapi.Message, text string) {
	enough, ok := parseYesNo(text)
	if !ok {
		b.setPending(message.From.ID, inputSleepNorm)
		b.sendWithKeyboard(message.Chat.ID, "Ответь, пожалуйста, «Да» или «Нет».", yesNoKeyboard())
		return
	}

	avg, err := b.service.AnswerSleepNorm(message.From.ID, enough)
	if err != nil {
		b.replyError(message.Chat.ID, "saving sleep norm", err)
		return
	}

	reply := fmt.Sprintf("✅ Запомнил: твоя норма сна %.1f ч.", avg)
	if !enough {
		reply = "Постарайся ложиться пораньше: взрослым обычно нужно 7-9 часов сна. Выдра напомнит, когда пора спать 🌙"
	}
	b.sendWithKeyboard(message.Chat.ID, reply, mainMenuKeyboard())
}

// handleDailyAdvice shows one advice per local day
func (b *Bot) handleDailyAdvice(message *tgbotapi.Message) {
	a, err := b.service.DailyAdvice(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "getting advice", err)
		return
	}
	b.sendMessage(message.Chat.ID, "💡 Совет дня\n\n"+a.Text)
}

func (b *Bot) handleWeeklyAdviceAnswer(message *tgbotapi.Message, text string) {
	followed, ok := parseYesNo(text)
	if !ok {
		b.setPending(message.From.ID, inputWeeklyAdvice)
		b.sendWithKeyboard(message.Chat.ID, "Ответь, пожалуйста, «Да» или «Нет».", yesNoKeyboard())
		return
	}

	if err := b.service.AnswerWeeklyAdvice(message.From.ID, followed); err != nil {
		b.replyError(message.Chat.ID, "saving weekly answer", err)
		return
	}

	reply := "🎉 Отлично! Так держать."
	if !followed {
		reply = "Ничего страшного. На этой неделе получится лучше 💪"
	}
	b.sendWithKeyboard(message.Chat.ID, reply, mainMenuKeyboard())
}

func parseYesNo(text string) (answer, ok bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "да", "yes", "д":
		return true, true
	case "нет", "no", "н":
		return false, true
	}
	return false, false
}

func (b *Bot) handleShowSettings(message *tgbotapi.Message) {
	user, err := b.service.GetUser(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "getting settings", err)
		return
	}
	b.sendWithKeyboard(message.Chat.ID, formatSettings(user), settingsKeyboard())
}

func (b *Bot) handleSetTimezone(message *tgbotapi.Message, tz string) {
	user, err := b.service.SetTimezone(message.From.ID, tz)
	if errors.Is(err, domain.ErrInvalidInput) {
		b.askInput(message, inputTimezone, "Не знаю такого часового пояса 🤔\n\n"+timezonePrompt)
		return
	}
	if err != nil {
		b.replyError(message.Chat.ID, "setting timezone", err)
		return
	}
	b.sendWithKeyboard(message.Chat.ID, "✅ Часовой пояс изменён на "+user.Settings.Timezone, settingsKeyboard())
}

func (b *Bot) handleSetWaterNorm(message *tgbotapi.Message, input string) {
	user, err := b.service.SetWaterNorm(message.From.ID, input)
	if errors.Is(err, domain.ErrInvalidInput) {
		b.askInput(message, inputWaterNorm, fmt.Sprintf(
			"Норма должна быть числом от %g до %g литров.\n\n%s", service.MinWaterNorm, service.MaxWaterNorm, waterNormPrompt))
		return
	}
	if err != nil {
		b.replyError(message.Chat.ID, "setting water norm", err)
		return
	}
	b.sendWithKeyboard(message.Chat.ID,
		fmt.Sprintf("✅ Норма воды: %gл в день. Выдра будет напоминать пить воду 💧", user.Settings.WaterNormLiters),
		settingsKeyboard())
}

func (b *Bot) handlePresetWaterNorm(message *tgbotapi.Message) {
	b.handleSetWaterNorm(message, presetWaterNorms[strings.TrimSpace(message.Text)])
}

func (b *Bot) handleSetGlassVolume(message *tgbotapi.Message, input string) {
	user, err := b.service.SetGlassVolume(message.From.ID, input)
	if errors.Is(err, domain.ErrInvalidInput) {
		b.askInput(message, inputGlassVolume, fmt.Sprintf(
			"Объём должен быть числом от %d до %d мл. Попробуй ещё раз.", service.MinGlassVolume, service.MaxGlassVolume))
		return
	}
	if err != nil {
		b.replyError(message.Chat.ID, "setting glass volume", err)
		return
	}
	b.sendWithKeyboard(message.Chat.ID,
		fmt.Sprintf("✅ Объём стакана: %d мл.", user.Settings.GlassVolumeML),
		settingsKeyboard())
}
