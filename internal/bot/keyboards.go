package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/service"
)

// Reply keyboard labels.
const (
	btnActions   = "Действия с выдрой"
	btnFriends   = "👥 Друзья"
	btnSettings  = "Настройки"
	btnStats     = "Статистика"
	btnAdvice    = "Совет дня"
	btnMainMenu  = "Назад в главное меню"
	btnBackShort = "Назад в меню"

	btnWakePet     = "Разбудить питомца"
	btnSleepPet    = "Уложить спать"
	btnBreakfast   = "Накормить (завтрак)"
	btnLunch       = "Накормить (обед)"
	btnDinner      = "Накормить (ужин)"
	btnWater       = "Дать воды"
	btnWorkStart   = "Отправить на работу"
	btnWorkEnd     = "Забрать с работы"
	btnHobby       = "Хобби / тренировка"
	btnBuyHobby    = "Купить хобби"
	btnGoToBed     = "Ложусь спать"
	btnWokeUp      = "Проснулся"
	btnDrinkGlass  = "💧 Выпил(а) стакан"
	btnPetStatus   = "🦦 Как дела у выдры?"
	btnWalkHobby   = "🆓 Прогулка по парку"
	hobbyPrefix    = "🎨 "
	buyHobbyPrefix = "💰 "

	btnFriendCode = "🔗 Мой код дружбы"
	btnAddFriend  = "➕ Добавить друга"
	btnMyFriends  = "📋 Мои друзья"
	btnCoopHobby  = "🤝 Совместное хобби"
	btnCoopWork   = "💼 Совместная работа"
	btnCoopWalk   = "🚶 Совместная прогулка"
	btnCoopMeal   = "🍽️ Совместный обед"
	btnCoopTrain  = "💪 Совместная тренировка"

	btnShowSettings = "Просмотреть настройки"
	btnSetTimezone  = "Изменить часовой пояс"
	btnSetName      = "Изменить имя выдры"
	btnWaterNorm    = "Настроить норму воды"
	btnGlassVolume  = "Настроить объем стакана"
	btnBackSettings = "Назад в настройки"

	btnKnowNorm  = "Знаю свою норму"
	btnSuggest   = "Не знаю, предложи норму"
	btnNorm2     = "2 литра"
	btnNorm25    = "2.5 литра"
	btnNorm3     = "3 литра"
	btnOtherNorm = "Другое"
	btnYes       = "Да"
	btnNo        = "Нет"
)

// coopButtons maps friends menu buttons to coop activities
var coopButtons = map[string]domain.ActivityType{
	btnCoopHobby: domain.ActivityHobby,
	btnCoopWork:  domain.ActivityWork,
	btnCoopWalk:  domain.ActivityWalk,
	btnCoopMeal:  domain.ActivityMeal,
	btnCoopTrain: domain.ActivityTraining,
}

func replyKeyboard(rows ...[]string) tgbotapi.ReplyKeyboardMarkup {
	buttons := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		line := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, text := range row {
			line = append(line, tgbotapi.NewKeyboardButton(text))
		}
		buttons = append(buttons, line)
	}
	kb := tgbotapi.NewReplyKeyboard(buttons...)
	kb.ResizeKeyboard = true
	return kb
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{btnActions, btnFriends},
		[]string{btnSettings, btnStats},
		[]string{btnAdvice},
	)
}

func actionsKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{btnWakePet, btnSleepPet},
		[]string{btnBreakfast, btnLunch},
		[]string{btnDinner, btnWater},
		[]string{btnWorkStart, btnWorkEnd},
		[]string{btnHobby, btnBuyHobby},
		[]string{btnGoToBed, btnWokeUp},
		[]string{btnDrinkGlass, btnPetStatus},
		[]string{btnMainMenu},
	)
}

func friendsKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{btnFriendCode, btnAddFriend},
		[]string{btnMyFriends},
		[]string{btnCoopHobby, btnCoopWork},
		[]string{btnCoopWalk, btnCoopMeal},
		[]string{btnCoopTrain},
		[]string{btnMainMenu},
	)
}

func settingsKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{btnShowSettings},
		[]string{btnSetTimezone},
		[]string{btnSetName},
		[]string{btnWaterNorm},
		[]string{btnGlassVolume},
		[]string{btnMainMenu},
	)
}

func waterNormKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard(
		[]string{btnKnowNorm},
		[]string{btnSuggest},
		[]string{btnNorm2, btnNorm25},
		[]string{btnNorm3, btnOtherNorm},
		[]string{btnBackSettings},
	)
}

func yesNoKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return replyKeyboard([]string{btnYes, btnNo})
}

// ownedHobbiesKeyboard lists hobbies the otter can play, two per row
func ownedHobbiesKeyboard(shop *service.HobbyShop) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]string{{btnWalkHobby}}
	var row []string
	for _, h := range shop.Owned {
		if h.ID == domain.BaseHobbyID {
			continue
		}
		row = append(row, hobbyPrefix+h.Title)
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []string{btnBackShort})
	return replyKeyboard(rows...)
}

// shopKeyboard lists hobbies that can still be bought
func shopKeyboard(shop *service.HobbyShop) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]string
	var row []string
	for _, h := range shop.Locked {
		row = append(row, shopLabel(h))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []string{btnBackShort})
	return replyKeyboard(rows...)
}

func shopLabel(h *domain.Hobby) string {
	return fmt.Sprintf("%s%s (%d монет)", buyHobbyPrefix, h.Title, h.Price)
}

// coopKeyboard offers the friends that can be invited to an activity
func coopKeyboard(activity domain.ActivityType, friends []service.FriendView) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for i, f := range friends {
		if i == maxCoopChoices {
			break
		}
		label := fmt.Sprintf("🦦 %s (ур. %d)", f.PetName, f.Friendship.FriendshipLevel)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, coopData(activity, fmt.Sprint(f.UserID))),
		))
	}
	if len(friends) > 1 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Со всеми близкими друзьями", coopData(activity, coopAll)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🦦 Выдра пойдёт одна", coopData(activity, coopSolo)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func drinkKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💧 Я тоже выпил(а) стакан", actionDrink),
		),
	)
}
