package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
)

func newTestDB(t *testing.T) *Database {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "otter.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStore(t *testing.T) {
	db := newTestDB(t)
	s := NewStore(db, "things")

	var v map[string]int
	found, err := s.Get("a", &v)
	if err != nil || found {
		t.Fatalf("Get on empty store = %v, %v", found, err)
	}

	if err := s.Set("a", map[string]int{"x": 1}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("a", map[string]int{"x": 2}); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}
	if err := NewStore(db, "other").Set("a", 3); err != nil {
		t.Fatalf("Set in other namespace failed: %v", err)
	}

	found, err = s.Get("a", &v)
	if err != nil || !found || v["x"] != 2 {
		t.Fatalf("Get = %v, %v, %v", v, found, err)
	}

	all, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("namespace leaked: %v", all)
	}
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	friends := NewFriendshipRepository(db)
	users := NewUserRepository(db, friends)

	missing, err := users.GetByID(1)
	if err != nil || missing != nil {
		t.Fatalf("GetByID on missing user = %v, %v", missing, err)
	}

	now := time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)
	u := domain.NewUserState(1, "Плюх", "Europe/Moscow")
	u.Pet.Money = 42
	u.Pet.LastInteraction = domain.At(now)
	u.LastReminders["lunch"] = "2024-06-03"
	u.TodayStats("2024-06-03").WaterLiters = 0.6

	if err := users.Save(u); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := users.GetByID(1)
	if err != nil || got == nil {
		t.Fatalf("GetByID = %v, %v", got, err)
	}
	if got.Pet.Name != "Плюх" || got.Pet.Money != 42 || got.Settings.Timezone != "Europe/Moscow" {
		t.Errorf("unexpected user: %+v", got)
	}
	if !got.Pet.LastInteraction.Equal(now) {
		t.Errorf("LastInteraction = %v, want %v", got.Pet.LastInteraction, now)
	}
	if got.DailyStats["2024-06-03"].WaterLiters != 0.6 || got.LastReminders["lunch"] != "2024-06-03" {
		t.Error("maps not persisted")
	}

	all, err := users.GetAll()
	if err != nil || len(all) != 1 || all[0].UserID != 1 {
		t.Fatalf("GetAll = %v, %v", all, err)
	}
}

func TestUserRepositoryRepairsMalformedRecord(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db, NewFriendshipRepository(db))

	raw := map[string]any{
		"pet": map[string]any{
			"name":             "Выдра",
			"happiness":        250,
			"hunger":           "lots",
			"last_interaction": "yesterday",
		},
	}
	if err := NewStore(db, usersNamespace).Set("7", raw); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	u, err := users.GetByID(7)
	if err != nil || u == nil {
		t.Fatalf("GetByID = %v, %v", u, err)
	}
	if u.UserID != 7 || u.Pet.Happiness != 100 || u.Pet.Hunger != domain.DefaultVital {
		t.Errorf("record not repaired: id %d happiness %d hunger %d", u.UserID, u.Pet.Happiness, u.Pet.Hunger)
	}
	if u.Pet.LastInteraction.IsSet() {
		t.Error("malformed timestamp should decode as unset")
	}
	if u.Settings.Timezone != domain.DefaultTimezone || u.LastReminders == nil {
		t.Error("defaults not applied")
	}
}

func TestFriendshipsAreSharedBetweenUsers(t *testing.T) {
	db := newTestDB(t)
	friends := NewFriendshipRepository(db)
	users := NewUserRepository(db, friends)

	for _, id := range []int64{10, 20} {
		if err := users.Save(domain.NewUserState(id, "", "")); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	now := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)
	f := &domain.Friendship{UserID1: 20, UserID2: 10, FriendshipLevel: 1, FirstMetDate: domain.At(now), LastInteraction: domain.At(now)}
	if err := friends.Save(f); err != nil {
		t.Fatalf("Save friendship failed: %v", err)
	}
	if f.UserID1 != 10 || f.UserID2 != 20 {
		t.Errorf("pair not canonicalized: (%d, %d)", f.UserID1, f.UserID2)
	}

	f.TotalSessionsTogether = 3
	f.FriendshipLevel = 2
	if err := friends.Save(f); err != nil {
		t.Fatalf("update friendship failed: %v", err)
	}

	a, _ := users.GetByID(10)
	b, _ := users.GetByID(20)
	fa, fb := a.Friendships[20], b.Friendships[10]
	if fa == nil || fb == nil {
		t.Fatal("friendship missing from a user view")
	}
	if fa.TotalSessionsTogether != 3 || fb.TotalSessionsTogether != 3 || fa.FriendshipLevel != 2 {
		t.Errorf("views disagree: %+v %+v", fa, fb)
	}
	if !fa.FirstMetDate.Equal(now) || !fb.FirstMetDate.Equal(now) {
		t.Error("first met date not shared")
	}

	if err := users.Save(a); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	var doc map[string]any
	if _, err := NewStore(db, usersNamespace).Get("10", &doc); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc["friendships"] != nil {
		t.Errorf("friendships written into the user document: %v", doc["friendships"])
	}

	if err := friends.Save(&domain.Friendship{UserID1: 5, UserID2: 5}); err == nil {
		t.Error("self friendship accepted")
	}
}

func TestLegacyFriendshipsAreMigrated(t *testing.T) {
	db := newTestDB(t)
	friends := NewFriendshipRepository(db)
	users := NewUserRepository(db, friends)

	raw := map[string]any{
		"user_id": 30,
		"friendships": map[string]any{
			"40": map[string]any{
				"user_id_1":               30,
				"user_id_2":               40,
				"friendship_level":        2,
				"total_sessions_together": 4,
				"first_met_date":          "2024-05-01T10:00:00+00:00",
			},
		},
	}
	if err := NewStore(db, usersNamespace).Set("30", raw); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	u, err := users.GetByID(30)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if f := u.Friendships[40]; f == nil || f.TotalSessionsTogether != 4 {
		t.Fatalf("legacy friendship not loaded: %+v", u.Friendships)
	}

	f, err := friends.Get(40, 30)
	if err != nil || f == nil || f.FriendshipLevel != 2 {
		t.Errorf("canonical record = %+v, %v", f, err)
	}
}

func TestHobbyRepositorySeed(t *testing.T) {
	db := newTestDB(t)
	repo := NewHobbyRepository(db)

	catalog := []*domain.Hobby{
		{ID: "walk", Title: "Прогулка"},
		{ID: "tennis", Title: "Теннис", Price: 50},
		{ID: "cinema", Title: "Кино", Price: 20, Type: domain.HobbyEntertainment},
	}
	if err := repo.Seed(catalog); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if err := repo.Seed([]*domain.Hobby{{ID: "other", Title: "x"}}); err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}

	all, err := repo.GetAll()
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}
	if len(all) != 3 || all[0].ID != "walk" || all[1].ID != "cinema" || all[2].ID != "tennis" {
		t.Errorf("unexpected catalog order: %+v", all)
	}

	h, err := repo.GetByID("tennis")
	if err != nil || h == nil || h.BaseHappiness != domain.DefaultBaseHappiness {
		t.Errorf("GetByID = %+v, %v", h, err)
	}
	if h, _ := repo.GetByID("missing"); h != nil {
		t.Error("missing hobby should be nil")
	}
}

func TestCoopSessionRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewCoopSessionRepository(db)

	start := time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)
	session := &domain.CoopSession{
		ID:              "c0ffee",
		ActivityType:    domain.ActivityMeal,
		UserIDs:         []int64{1, 2},
		StartTime:       start,
		DurationMinutes: 30,
		ResultHappiness: map[int64]int{1: 25, 2: 25},
		ResultMoney:     map[int64]int{1: 0, 2: 0},
		EventTriggered:  "Чудесный обед вместе!",
	}
	if err := repo.Create(session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID("c0ffee")
	if err != nil || got == nil {
		t.Fatalf("GetByID = %v, %v", got, err)
	}
	if !got.StartTime.Equal(start) || len(got.UserIDs) != 2 || got.ResultHappiness[2] != 25 || got.EventTriggered != session.EventTriggered {
		t.Errorf("unexpected session: %+v", got)
	}

	n, err := repo.CountForUser(2)
	if err != nil || n != 1 {
		t.Errorf("CountForUser = %d, %v", n, err)
	}
	if err := repo.Create(session); err == nil {
		t.Error("duplicate session id accepted")
	}
	if n, _ := repo.CountForUser(2); n != 1 {
		t.Errorf("failed insert left %d participant rows", n)
	}
}

func TestStatsRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewStatsRepository(db)

	stats, err := repo.Get(1)
	if err != nil || stats.FeedEvents != 0 {
		t.Fatalf("Get on empty = %+v, %v", stats, err)
	}

	for _, step := range []struct {
		counter domain.Counter
		delta   int
	}{
		{domain.CounterFeedEvents, 1},
		{domain.CounterFeedEvents, 1},
		{domain.CounterSleepMinutes, 480},
		{domain.CounterSleepMinutes, -5},
	} {
		if err := repo.Add(1, step.counter, step.delta); err != nil {
			t.Fatalf("Add(%s) failed: %v", step.counter, err)
		}
	}

	stats, _ = repo.Get(1)
	if stats.FeedEvents != 2 || stats.TotalSleepMinutes != 480 {
		t.Errorf("unexpected stats: %+v", stats)
	}

	if err := repo.Add(1, "drop table", 1); err == nil {
		t.Error("unknown counter accepted")
	}
}
