package bot

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/glebk/otter-bot/internal/config"
	"github.com/glebk/otter-bot/internal/reminder"
	"github.com/glebk/otter-bot/internal/service"
)

// membershipTimeout bounds the channel check made for a revival
const membershipTimeout = 10 * time.Second

// inputState is the free-text answer the bot is waiting for
type inputState int

const (
	inputNone inputState = iota
	inputPetName
	inputTimezone
	inputWaterNorm
	inputGlassVolume
	inputFriendCode
	inputSleepNorm
	inputWeeklyAdvice
)

// Bot represents the Telegram bot
type Bot struct {
	api     *tgbotapi.BotAPI
	service *service.OtterService
	config  *config.Config

	buttons map[string]func(*tgbotapi.Message)

	// pending is shared with the reminder goroutine through Notify.
	mu      sync.Mutex
	pending map[int64]inputState
}

// Connect authorizes the bot token
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	log.Printf("Authorized on account %s", api.Self.UserName)
	return api, nil
}

// New creates a new Bot instance
func New(api *tgbotapi.BotAPI, svc *service.OtterService, cfg *config.Config) *Bot {
	b := &Bot{
		api:     api,
		service: svc,
		config:  cfg,
		pending: make(map[int64]inputState),
	}
	b.buttons = b.buttonHandlers()
	return b
}

// Start starts the bot. Blocks until Stop is called.
func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message != nil {
			b.handleMessage(update.Message)
		} else if update.CallbackQuery != nil {
			b.handleCallbackQuery(update.CallbackQuery)
		}
	}

	return nil
}

// Stop stops receiving updates
func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}

// Notify delivers a reminder. It implements reminder.Sender.
func (b *Bot) Notify(userID int64, n reminder.Notice) error {
	msg := tgbotapi.NewMessage(userID, n.Text)
	if n.Kind == reminder.KindWeekly {
		msg.ReplyMarkup = yesNoKeyboard()
	}

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder %s: %w", n.Key, err)
	}
	if n.Kind == reminder.KindWeekly {
		b.setPending(userID, inputWeeklyAdvice)
	}
	return nil
}

// handleMessage handles incoming messages
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	if message.From == nil {
		return
	}

	if message.IsCommand() {
		b.clearPending(message.From.ID)
		b.handleCommand(message)
		return
	}

	text := strings.TrimSpace(message.Text)
	if handler, ok := b.buttons[text]; ok {
		b.clearPending(message.From.ID)
		handler(message)
		return
	}

	if state := b.takePending(message.From.ID); state != inputNone {
		b.handleInput(message, state)
		return
	}

	switch {
	case text == btnWalkHobby || strings.HasPrefix(text, hobbyPrefix):
		b.handlePlayHobby(message, strings.TrimPrefix(text, hobbyPrefix))
	case strings.HasPrefix(text, buyHobbyPrefix):
		b.handleBuyHobby(message, text)
	default:
		b.sendWithKeyboard(message.Chat.ID, "Не понимаю 🦦 Выбери действие из меню.", mainMenuKeyboard())
	}
}

// handleCommand handles bot commands
func (b *Bot) handleCommand(message *tgbotapi.Message) {
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		b.handleStart(message)
	case "help":
		b.handleHelp(message)
	case "pet_status":
		b.handleStatus(message)
	case "my_stats":
		b.handleWeeklyStats(message)
	case "settings":
		b.handleShowSettings(message)
	case "set_name":
		if args == "" {
			b.askInput(message, inputPetName, "Как назовём выдру? Напиши новое имя.")
			return
		}
		b.handleSetName(message, args)
	case "set_timezone":
		if args == "" {
			b.askInput(message, inputTimezone, timezonePrompt)
			return
		}
		b.handleSetTimezone(message, args)
	case "revive":
		b.handleRevive(message)
	case "advice":
		b.handleDailyAdvice(message)
	case "my_code":
		b.handleFriendCode(message)
	case "add_friend":
		if args == "" {
			b.askInput(message, inputFriendCode, friendCodePrompt)
			return
		}
		b.handleAddFriend(message, args)
	case "list_friends":
		b.handleListFriends(message)
	case "friend_info":
		b.handleFriendInfo(message, args)
	case "coop_walk":
		b.offerCoop(message, coopButtons[btnCoopWalk])
	case "coop_meal", "lunch_together":
		b.offerCoop(message, coopButtons[btnCoopMeal])
	case "work_together":
		b.offerCoop(message, coopButtons[btnCoopWork])
	case "hobby_together":
		b.offerCoop(message, coopButtons[btnCoopHobby])
	case "training_together":
		b.offerCoop(message, coopButtons[btnCoopTrain])
	case "buy_hobby":
		b.handleShop(message)
	case "hobby_stats":
		b.handleHobbyStats(message)
	case "hobby_recommendations":
		b.handleRecommendations(message)
	case "hobby_help":
		b.sendMessage(message.Chat.ID, hobbyHelpText)
	default:
		b.sendMessage(message.Chat.ID, "Неизвестная команда. Используйте /help чтобы узнать больше")
	}
}

// buttonHandlers maps reply keyboard labels to their handlers
func (b *Bot) buttonHandlers() map[string]func(*tgbotapi.Message) {
	menu := func(text string, kb tgbotapi.ReplyKeyboardMarkup) func(*tgbotapi.Message) {
		return func(m *tgbotapi.Message) { b.sendWithKeyboard(m.Chat.ID, text, kb) }
	}

	handlers := map[string]func(*tgbotapi.Message){
		btnActions:      menu(actionsMenuText, actionsKeyboard()),
		btnSettings:     menu("⚙️ Настройки\n\nЗдесь ты можешь просмотреть и изменить параметры бота.", settingsKeyboard()),
		btnBackSettings: menu("⚙️ Настройки", settingsKeyboard()),
		btnMainMenu:     menu("🏠 Главное меню\n\nВыбери действие:", mainMenuKeyboard()),
		btnBackShort:    menu("🦦 Действия с выдрой", actionsKeyboard()),
		btnFriends:      menu(friendsMenuText, friendsKeyboard()),
		btnWaterNorm:    menu("💧 Какая у тебя норма воды в день?", waterNormKeyboard()),
		btnStats:        b.handleWeeklyStats,
		btnAdvice:       b.handleDailyAdvice,

		btnWakePet:   b.handleWakePet,
		btnSleepPet:  b.handleSleepPet,
		btnBreakfast: b.handleFeed,
		btnLunch:     b.handleFeed,
		btnDinner:    b.handleFeed,
		btnWater:     b.handleWater,
		btnWorkStart: b.handleWorkStart,
		btnWorkEnd:   b.handleWorkEnd,
		btnHobby:     b.handleHobbyMenu,
		btnBuyHobby:  b.handleShop,
		btnGoToBed:   b.handleGoToBed,
		btnWokeUp:    b.handleWokeUp,
		btnDrinkGlass: func(m *tgbotapi.Message) {
			b.handleDrinkGlass(m.Chat.ID, m.From.ID)
		},
		btnPetStatus: b.handleStatus,

		btnFriendCode: b.handleFriendCode,
		btnAddFriend: func(m *tgbotapi.Message) {
			b.askInput(m, inputFriendCode, friendCodePrompt)
		},
		btnMyFriends: b.handleListFriends,

		btnShowSettings: b.handleShowSettings,
		btnSetTimezone: func(m *tgbotapi.Message) {
			b.askInput(m, inputTimezone, timezonePrompt)
		},
		btnSetName: func(m *tgbotapi.Message) {
			b.askInput(m, inputPetName, "Как назовём выдру? Напиши новое имя.")
		},
		btnGlassVolume: func(m *tgbotapi.Message) {
			b.askInput(m, inputGlassVolume, "🥛 Напиши объём своего стакана в миллилитрах, например 250.")
		},
		btnKnowNorm: func(m *tgbotapi.Message) {
			b.askInput(m, inputWaterNorm, waterNormPrompt)
		},
		btnOtherNorm: func(m *tgbotapi.Message) {
			b.askInput(m, inputWaterNorm, waterNormPrompt)
		},
		btnSuggest: menu(waterSuggestionText, waterNormKeyboard()),
		btnNorm2:   b.handlePresetWaterNorm,
		btnNorm25:  b.handlePresetWaterNorm,
		btnNorm3:   b.handlePresetWaterNorm,
	}

	for label, activity := range coopButtons {
		activity := activity
		handlers[label] = func(m *tgbotapi.Message) { b.offerCoop(m, activity) }
	}
	return handlers
}

// handleInput handles a free-text answer to an earlier question
func (b *Bot) handleInput(message *tgbotapi.Message, state inputState) {
	text := strings.TrimSpace(message.Text)

	switch state {
	case inputPetName:
		b.handleSetName(message, text)
	case inputTimezone:
		b.handleSetTimezone(message, text)
	case inputWaterNorm:
		b.handleSetWaterNorm(message, text)
	case inputGlassVolume:
		b.handleSetGlassVolume(message, text)
	case inputFriendCode:
		b.handleAddFriend(message, text)
	case inputSleepNorm:
		b.handleSleepNormAnswer(message, text)
	case inputWeeklyAdvice:
		b.handleWeeklyAdviceAnswer(message, text)
	}
}

// handleCallbackQuery handles inline keyboard presses
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	if query.Message == nil {
		b.answerCallback(query.ID, "")
		return
	}
	chatID := query.Message.Chat.ID

	if query.Data == actionDrink {
		b.answerCallback(query.ID, "💧")
		b.handleDrinkGlass(chatID, query.From.ID)
		return
	}

	activity, target, ok := parseCoopData(query.Data)
	if !ok {
		b.answerCallback(query.ID, "Invalid response")
		return
	}

	b.answerCallback(query.ID, "🦦 Собираем выдр...")
	b.removeInlineKeyboard(query.Message)
	b.runCoop(chatID, query.From.ID, activity, target)
}

// askInput remembers the question and sends the prompt
func (b *Bot) askInput(message *tgbotapi.Message, state inputState, prompt string) {
	b.setPending(message.From.ID, state)
	msg := tgbotapi.NewMessage(message.Chat.ID, prompt)
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.send(msg)
}

func (b *Bot) setPending(userID int64, state inputState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[userID] = state
}

func (b *Bot) clearPending(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pending, userID)
}

// takePending returns and clears the awaited input
func (b *Bot) takePending(userID int64) inputState {
	b.mu.Lock()
	defer b.mu.Unlock()
	state := b.pending[userID]
	delete(b.pending, userID)
	return state
}

// replyError reports err to the user and logs unexpected errors
func (b *Bot) replyError(chatID int64, action string, err error) {
	text, known := errorText(err)
	if !known {
		log.Printf("Error %s: %v", action, err)
	}
	b.sendMessage(chatID, text)
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

func (b *Bot) sendWithKeyboard(chatID int64, text string, keyboard any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = keyboard
	b.send(msg)
}

func (b *Bot) answerCallback(callbackID string, text string) {
	callback := tgbotapi.NewCallback(callbackID, text)
	if _, err := b.api.Request(callback); err != nil {
		log.Printf("Error answering callback: %v", err)
	}
}

func (b *Bot) removeInlineKeyboard(message *tgbotapi.Message) {
	edit := tgbotapi.NewEditMessageReplyMarkup(message.Chat.ID, message.MessageID, tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{},
	})
	if _, err := b.api.Request(edit); err != nil {
		log.Printf("Error editing message: %v", err)
	}
}

func (b *Bot) membershipContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), membershipTimeout)
}
