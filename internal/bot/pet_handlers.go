package bot

import (
	"errors"
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/pet"
)

const actionsMenuText = "🦦 Действия с выдрой\n\n" +
	"Здесь ты можешь взаимодействовать со своей выдрой:\n" +
	"• Укладывать и будить выдру\n" +
	"• Кормить и поить\n" +
	"• Отправлять на работу\n" +
	"• Заниматься хобби и тренировками\n\n" +
	"Выбери действие из меню ниже:"

const helpText = `🦦 Выдра-компаньон: помощь

Заботься о выдре, и она позаботится о тебе: напомнит попить воды, пообедать и лечь спать вовремя.

Команды:
/start - Завести выдру и показать меню
/pet_status - Как дела у выдры
/my_stats - Статистика сна и воды за неделю
/advice - Совет дня
/settings - Настройки
/set_name Имя - Переименовать выдру
/set_timezone Region/City - Часовой пояс
/revive - Вернуть выдру
/my_code - Мой код дружбы
/add_friend КОД - Добавить друга
/list_friends - Мои друзья
/friend_info КОД - Информация о дружбе
/coop_walk, /coop_meal, /work_together, /hobby_together, /training_together - Совместные активности
/buy_hobby - Магазин хобби
/hobby_stats - Мастерство в хобби
/hobby_recommendations - Что посоветовать выдре
/hobby_help - Как работают хобби

Если долго не заходить, выдра начнёт грустить. Через 72 часа она уедет в отпуск, а если была совсем плоха, может не дождаться тебя.`

const hobbyHelpText = `🎨 Как работают хобби

• Прогулка по парку есть у каждой выдры бесплатно.
• Остальные хобби покупаются за монеты, которые выдра зарабатывает на работе.
• Чем дороже хобби, тем сильнее оно радует выдру и снимает усталость.
• Каждое занятие повышает мастерство (до 5 звёзд), а с ним и эффект.
• Занятия несколько дней подряд дают бонус серии, но больше недели подряд одно и то же надоедает.
• Во время занятий случаются события: от вдохновения до мелких неудач.`

// handleStart handles the /start command
func (b *Bot) handleStart(message *tgbotapi.Message) {
	user, err := b.service.CreatePet(message.From.ID, "")
	switch {
	case errors.Is(err, domain.ErrUserExists):
		b.sendWithKeyboard(message.Chat.ID,
			fmt.Sprintf("🦦 С возвращением, %s! %s ждёт тебя.", message.From.FirstName, user.Pet.Name),
			mainMenuKeyboard())
		return
	case err != nil:
		b.replyError(message.Chat.ID, "creating pet", err)
		return
	}

	text := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Познакомься, это твоя выдра %s 🦦\n\n"+
			"Корми её, пои водой, укладывай спать и отправляй на работу. "+
			"Она будет напоминать тебе пить воду, обедать и ложиться вовремя.\n\n"+
			"Часовой пояс по умолчанию: %s. Поменять его можно в настройках.\n"+
			"Используй /help, чтобы узнать больше.",
		message.From.FirstName, user.Pet.Name, user.Settings.Timezone,
	)
	b.sendWithKeyboard(message.Chat.ID, text, mainMenuKeyboard())
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	b.sendMessage(message.Chat.ID, helpText)
}

// handleStatus shows the otter's vitals after decay
func (b *Bot) handleStatus(message *tgbotapi.Message) {
	report, err := b.service.Status(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "getting status", err)
		return
	}
	b.sendMessage(message.Chat.ID, formatStatus(report))
}

func (b *Bot) handleFeed(message *tgbotapi.Message) {
	res, err := b.service.Feed(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "feeding pet", err)
		return
	}
	b.sendWithKeyboard(message.Chat.ID,
		careText("🍽️ Выдра с удовольствием поела! Не забудь поесть и сам(а).", res),
		actionsKeyboard())
}

func (b *Bot) handleWater(message *tgbotapi.Message) {
	res, err := b.service.GiveWater(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "giving water", err)
		return
	}
	b.sendWithKeyboard(message.Chat.ID,
		careText("💧 Выдра сделала глоток воды. Пойдём и ты выпьешь стаканчик воды!", res),
		drinkKeyboard())
}

func (b *Bot) handleSleepPet(message *tgbotapi.Message) {
	res, err := b.service.PutToSleep(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "putting pet to sleep", err)
		return
	}
	b.sendMessage(message.Chat.ID, careText("😴 Выдра свернулась клубочком и уснула. Сладких снов!", res))
}

func (b *Bot) handleWakePet(message *tgbotapi.Message) {
	res, err := b.service.WakeUp(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "waking pet", err)
		return
	}
	headline := "🌅 Выдра проснулась и потягивается!"
	if res.SleptMinutes > 0 {
		headline += " Она спала " + formatDuration(res.SleptMinutes) + "."
	}
	b.sendMessage(message.Chat.ID, careText(headline, &res.CareResult))
}

func (b *Bot) handleWorkStart(message *tgbotapi.Message) {
	res, err := b.service.StartWork(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "starting work", err)
		return
	}
	headline := fmt.Sprintf(
		"💼 Выдра ушла на работу! Сегодня можно отработать ещё %.1f ч.\nЗа каждый час она получит %d монет.",
		res.RemainingHours, pet.CoinsPerHour,
	)
	b.sendMessage(message.Chat.ID, careText(headline, &res.CareResult))
}

func (b *Bot) handleWorkEnd(message *tgbotapi.Message) {
	res, err := b.service.EndWork(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "ending work", err)
		return
	}
	headline := fmt.Sprintf(
		"🏠 Выдра вернулась с работы!\nОтработано: %.1f ч, заработано: %d монет.\nСегодня можно отработать ещё %.1f ч.",
		res.Hours, res.Earned, res.RemainingHours,
	)
	b.sendMessage(message.Chat.ID, careText(headline, &res.CareResult))
}

// handleRevive brings the otter back, checking the channel when required
func (b *Bot) handleRevive(message *tgbotapi.Message) {
	ctx, cancel := b.membershipContext()
	defer cancel()

	res, err := b.service.Revive(ctx, message.From.ID)
	if errors.Is(err, domain.ErrNotChannelMember) && b.config.RevivalEnabled() {
		b.sendMessage(message.Chat.ID, fmt.Sprintf(
			"💀 Бесплатные воскрешения закончились.\n\nПодпишись на канал %s и снова нажми /revive, чтобы вернуть выдру.",
			b.config.RequiredChannel))
		return
	}
	if err != nil {
		b.replyError(message.Chat.ID, "reviving pet", err)
		return
	}

	var headline string
	switch res.Kind {
	case pet.ReviveVacation:
		headline = "🏖️ Выдра вернулась из отпуска отдохнувшей!"
	case pet.ReviveFree:
		headline = "✨ Выдра снова с тобой! Это было бесплатное воскрешение, береги её."
	default:
		headline = "✨ Спасибо за подписку! Выдра снова с тобой."
	}
	b.sendWithKeyboard(message.Chat.ID, headline+"\n\n"+vitalsText(&res.User.Pet), mainMenuKeyboard())
}

// handleHobbyMenu shows the hobbies the otter owns
func (b *Bot) handleHobbyMenu(message *tgbotapi.Message) {
	shop, err := b.service.Hobbies(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "listing hobbies", err)
		return
	}
	b.sendWithKeyboard(message.Chat.ID, "🎨 Чем займётся выдра?", ownedHobbiesKeyboard(shop))
}

// handlePlayHobby runs the hobby whose button title was pressed
func (b *Bot) handlePlayHobby(message *tgbotapi.Message, title string) {
	hobbyID := domain.BaseHobbyID
	if title != btnWalkHobby {
		shop, err := b.service.Hobbies(message.From.ID)
		if err != nil {
			b.replyError(message.Chat.ID, "listing hobbies", err)
			return
		}
		hobbyID = ""
		for _, h := range shop.Owned {
			if h.Title == title {
				hobbyID = h.ID
				break
			}
		}
		if hobbyID == "" {
			b.replyError(message.Chat.ID, "finding hobby", domain.ErrHobbyNotFound)
			return
		}
	}

	outcome, err := b.service.PlayHobby(message.From.ID, hobbyID)
	if err != nil {
		b.replyError(message.Chat.ID, "playing hobby", err)
		return
	}
	b.sendMessage(message.Chat.ID, formatHobbyOutcome(outcome))
}

// handleShop shows the hobbies that can be bought
func (b *Bot) handleShop(message *tgbotapi.Message) {
	shop, err := b.service.Hobbies(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "listing hobbies", err)
		return
	}
	b.sendWithKeyboard(message.Chat.ID, formatShop(shop), shopKeyboard(shop))
}

// handleBuyHobby buys the hobby whose shop button was pressed
func (b *Bot) handleBuyHobby(message *tgbotapi.Message, label string) {
	shop, err := b.service.Hobbies(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "listing hobbies", err)
		return
	}

	var bought *domain.Hobby
	for _, h := range shop.Locked {
		if shopLabel(h) == label {
			bought = h
			break
		}
	}
	if bought == nil {
		b.replyError(message.Chat.ID, "finding hobby", domain.ErrHobbyNotFound)
		return
	}

	res, err := b.service.BuyHobby(message.From.ID, bought.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "buying hobby", err)
		return
	}

	text := fmt.Sprintf("🛍️ Куплено хобби «%s»!", bought.Title)
	if bought.Description != "" {
		text += "\n\n" + bought.Description
	}
	b.sendWithKeyboard(message.Chat.ID, careText(text, res), actionsKeyboard())
}

func (b *Bot) handleHobbyStats(message *tgbotapi.Message) {
	views, err := b.service.HobbyStats(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "getting hobby stats", err)
		return
	}
	b.sendMessage(message.Chat.ID, formatMastery(views))
}

func (b *Bot) handleRecommendations(message *tgbotapi.Message) {
	recs, err := b.service.Recommendations(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "getting recommendations", err)
		return
	}
	b.sendMessage(message.Chat.ID, formatRecommendations(recs))
}

// handleSetName renames the otter
func (b *Bot) handleSetName(message *tgbotapi.Message, name string) {
	user, err := b.service.SetName(message.From.ID, name)
	if errors.Is(err, domain.ErrInvalidInput) {
		b.askInput(message, inputPetName, "Имя должно быть непустым и не длиннее 32 символов. Попробуй ещё раз.")
		return
	}
	if err != nil {
		b.replyError(message.Chat.ID, "renaming pet", err)
		return
	}
	log.Printf("User %d renamed the otter", message.From.ID)
	b.sendWithKeyboard(message.Chat.ID, fmt.Sprintf("✅ Теперь выдру зовут %s 🦦", strings.TrimSpace(user.Pet.Name)), settingsKeyboard())
}
