package bot

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/glebk/otter-bot/internal/domain"
	"github.com/glebk/otter-bot/internal/service"
	"github.com/glebk/otter-bot/internal/social"
)

const friendsMenuText = "👥 Друзья\n\n" +
	"Выдры любят компанию! Обменяйтесь кодами дружбы и занимайтесь вместе:\n" +
	"• чем крепче дружба, тем больше счастья и монет\n" +
	"• в совместной активности может быть до 6 выдр\n\n" +
	"Выбери действие:"

const friendCodePrompt = "🔗 Напиши код дружбы своего друга. Его можно узнать по кнопке «Мой код дружбы»."

func (b *Bot) handleFriendCode(message *tgbotapi.Message) {
	if _, err := b.service.GetUser(message.From.ID); err != nil {
		b.replyError(message.Chat.ID, "getting friend code", err)
		return
	}
	b.sendMessage(message.Chat.ID, fmt.Sprintf(
		"🔗 Твой код дружбы: %d\n\nОтправь его другу, пусть он добавит тебя через «Добавить друга» или /add_friend %d",
		message.From.ID, message.From.ID))
}

// handleAddFriend befriends the owner of code and tells both sides
func (b *Bot) handleAddFriend(message *tgbotapi.Message, code string) {
	friendID, err := parseFriendCode(code)
	if err != nil {
		b.askInput(message, inputFriendCode, "Код дружбы состоит только из цифр. Попробуй ещё раз.")
		return
	}

	res, err := b.service.AddFriend(message.From.ID, friendID)
	if err != nil {
		b.replyError(message.Chat.ID, "adding friend", err)
		return
	}

	b.sendWithKeyboard(message.Chat.ID,
		fmt.Sprintf("🎉 Теперь ты дружишь с выдрой %s! Обе выдры получили подарок.", res.Friend.PetName)+
			formatAchievements(res.Achieved),
		friendsKeyboard())
	b.sendMessage(friendID,
		fmt.Sprintf("👥 %s добавил(а) тебя в друзья! Теперь ваши выдры могут проводить время вместе.", message.From.FirstName)+
			formatAchievements(res.FriendGain))
}

func (b *Bot) handleListFriends(message *tgbotapi.Message) {
	views, err := b.service.Friends(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "listing friends", err)
		return
	}
	b.sendMessage(message.Chat.ID, formatFriends(views))
}

func (b *Bot) handleFriendInfo(message *tgbotapi.Message, args string) {
	if args == "" {
		b.sendMessage(message.Chat.ID, "Укажи код друга: /friend_info КОД")
		return
	}
	friendID, err := parseFriendCode(args)
	if err != nil {
		b.replyError(message.Chat.ID, "parsing friend code", err)
		return
	}

	user, err := b.service.GetUser(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "getting user", err)
		return
	}
	view, err := b.service.FriendInfo(message.From.ID, friendID)
	if err != nil {
		b.replyError(message.Chat.ID, "getting friend info", err)
		return
	}
	b.sendMessage(message.Chat.ID, formatFriendInfo(view, user.Location(b.config.Location())))
}

// offerCoop asks who should join the activity
func (b *Bot) offerCoop(message *tgbotapi.Message, activity domain.ActivityType) {
	views, err := b.service.Friends(message.From.ID)
	if err != nil {
		b.replyError(message.Chat.ID, "listing friends", err)
		return
	}

	text := social.ProfileFor(activity).Title + "\n\n"
	if len(views) == 0 {
		text += "У тебя пока нет друзей, но выдра может заняться этим и одна."
	} else {
		text += "С кем пойдёт выдра?"
	}
	b.sendWithKeyboard(message.Chat.ID, text, coopKeyboard(activity, views))
}

// runCoop starts the activity chosen from the coop keyboard. target is a
// friend id, coopAll or coopSolo.
func (b *Bot) runCoop(chatID, userID int64, activity domain.ActivityType, target string) {
	var friendIDs []int64
	switch target {
	case coopSolo:
	case coopAll:
		views, err := b.service.Friends(userID)
		if err != nil {
			b.replyError(chatID, "listing friends", err)
			return
		}
		for _, v := range views {
			if len(friendIDs) == social.MaxParticipants-1 {
				break
			}
			friendIDs = append(friendIDs, v.UserID)
		}
	default:
		id, err := strconv.ParseInt(target, 10, 64)
		if err != nil {
			b.answerInvalidTarget(chatID, target)
			return
		}
		friendIDs = []int64{id}
	}

	res, skipped, err := b.coopWithAvailable(userID, activity, friendIDs, target == coopAll)
	if err != nil {
		b.replyError(chatID, "running coop activity", err)
		return
	}

	text := formatCoop(res)
	for _, name := range skipped {
		text += fmt.Sprintf("\n\n😴 %s сейчас не может присоединиться.", name)
	}
	b.sendMessage(chatID, text+formatAchievements(res.Achievements[userID]))

	initiator := res.Participants[0].Pet.Name
	for _, u := range res.Participants[1:] {
		b.sendMessage(u.UserID,
			fmt.Sprintf("👋 Выдра %s позвала твою выдру!\n\n", initiator)+formatCoop(res)+formatAchievements(res.Achievements[u.UserID]))
	}
}

// coopWithAvailable runs the activity. When lenient, friends that cannot join
// are dropped and reported by pet name instead of failing the activity.
func (b *Bot) coopWithAvailable(userID int64, activity domain.ActivityType, friendIDs []int64, lenient bool) (*service.CoopResult, []string, error) {
	var skipped []string
	for {
		res, err := b.service.Coop(userID, activity, friendIDs)
		var perr *service.ParticipantError
		if err == nil || !lenient || !errors.As(err, &perr) {
			return res, skipped, err
		}

		i := slices.Index(friendIDs, perr.UserID)
		if i < 0 {
			return nil, skipped, err
		}
		friendIDs = slices.Delete(friendIDs, i, i+1)
		skipped = append(skipped, perr.PetName)
	}
}

func (b *Bot) answerInvalidTarget(chatID int64, target string) {
	log.Printf("Error parsing coop target %q", target)
	b.sendMessage(chatID, genericError)
}
