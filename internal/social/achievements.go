package social

import "github.com/glebk/otter-bot/internal/domain"

// Achievement is a one-time social reward
type Achievement struct {
	ID              string
	Title           string
	Description     string
	RewardHappiness int
	RewardCoins     int
	earned          func(Progress) bool
}

// Progress is the social history used to evaluate achievements
type Progress struct {
	Friendships  []*domain.Friendship
	CoopSessions int
	HobbyCoop    bool
}

func (pr Progress) friendsAtLevel(level int) int {
	n := 0
	for _, f := range pr.Friendships {
		if f.FriendshipLevel >= level {
			n++
		}
	}
	return n
}

func (pr Progress) maxSessions() int {
	best := 0
	for _, f := range pr.Friendships {
		best = max(best, f.TotalSessionsTogether)
	}
	return best
}

var achievements = []Achievement{
	{
		ID:              "first_friend",
		Title:           "Нашёл друга! 👥",
		Description:     "Добавил первого друга",
		RewardHappiness: 20,
		RewardCoins:     50,
		earned:          func(pr Progress) bool { return len(pr.Friendships) >= 1 },
	},
	{
		ID:              "best_friends",
		Title:           "Лучшие друзья ⭐⭐⭐⭐⭐",
		Description:     "Дружба уровня 5 со своим другом",
		RewardHappiness: 100,
		RewardCoins:     500,
		earned:          func(pr Progress) bool { return pr.friendsAtLevel(5) >= 1 },
	},
	{
		ID:              "brothers",
		Title:           "Братья/сёстры 🫂",
		Description:     "Дружба уровня 10 (максимум) со своим другом",
		RewardHappiness: 200,
		RewardCoins:     1000,
		earned:          func(pr Progress) bool { return pr.friendsAtLevel(MaxFriendshipLevel) >= 1 },
	},
	{
		ID:              "10_sessions_together",
		Title:           "Опытные товарищи 🤝",
		Description:     "10 совместных активностей с одним другом",
		RewardHappiness: 50,
		RewardCoins:     200,
		earned:          func(pr Progress) bool { return pr.maxSessions() >= 10 },
	},
	{
		ID:              "popular_otter",
		Title:           "Любимая выдра! 💫",
		Description:     "3 друга с дружбой уровня 3+",
		RewardHappiness: 75,
		RewardCoins:     300,
		earned:          func(pr Progress) bool { return pr.friendsAtLevel(3) >= 3 },
	},
	{
		ID:              "social_butterfly",
		Title:           "Социальная бабочка 🦋",
		Description:     "5 друзей одновременно",
		RewardHappiness: 150,
		RewardCoins:     500,
		earned:          func(pr Progress) bool { return len(pr.Friendships) >= 5 },
	},
	{
		ID:              "50_coop_sessions",
		Title:           "Командный игрок 🏃",
		Description:     "50 совместных активностей (с кем угодно)",
		RewardHappiness: 100,
		RewardCoins:     750,
		earned:          func(pr Progress) bool { return pr.CoopSessions >= 50 },
	},
	{
		ID:              "first_group_hobby",
		Title:           "Творческий дуэт 🎨",
		Description:     "Первое совместное хобби с друзьями",
		RewardHappiness: 40,
		RewardCoins:     150,
		earned:          func(pr Progress) bool { return pr.HobbyCoop },
	},
}

// Achievements lists every social achievement
func Achievements() []Achievement {
	return achievements
}

// Grant awards every achievement earned by pr that the otter does not have yet.
// Rewards are applied once.
func Grant(p *domain.PetState, pr Progress) []Achievement {
	var granted []Achievement
	for _, a := range achievements {
		if p.HasAchievement(a.ID) || !a.earned(pr) {
			continue
		}
		p.UnlockedAchievements = append(p.UnlockedAchievements, a.ID)
		p.Happiness = domain.ClampVital(p.Happiness + a.RewardHappiness)
		p.Money += a.RewardCoins
		granted = append(granted, a)
	}
	return granted
}
