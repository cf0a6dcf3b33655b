package service

import (
	"context"
	"encoding/json"
	"math/rand/v2"
	"sort"
	"testing"
	"time"

	"github.com/glebk/otter-bot/internal/domain"
)

// memUsers stores users as JSON documents and hydrates friendships on load,
// the same way the sqlite repository does.
type memUsers struct {
	docs    map[int64][]byte
	friends *memFriendships
}

func (m *memUsers) GetByID(id int64) (*domain.UserState, error) {
	data, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	u := &domain.UserState{}
	if err := json.Unmarshal(data, u); err != nil {
		return nil, err
	}
	u.Normalize()

	list, _ := m.friends.ListFor(id)
	u.Friendships = make(map[int64]*domain.Friendship, len(list))
	for _, f := range list {
		u.Friendships[f.Other(id)] = f
	}
	return u, nil
}

func (m *memUsers) GetAll() ([]*domain.UserState, error) {
	var all []*domain.UserState
	for id := range m.docs {
		u, err := m.GetByID(id)
		if err != nil {
			return nil, err
		}
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UserID < all[j].UserID })
	return all, nil
}

func (m *memUsers) Save(u *domain.UserState) error {
	doc := *u
	doc.Friendships = nil
	data, err := json.Marshal(&doc)
	if err != nil {
		return err
	}
	m.docs[u.UserID] = data
	return nil
}

type memFriendships struct {
	pairs map[[2]int64]domain.Friendship
}

func (m *memFriendships) Get(a, b int64) (*domain.Friendship, error) {
	id1, id2 := domain.FriendshipKey(a, b)
	f, ok := m.pairs[[2]int64{id1, id2}]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (m *memFriendships) Save(f *domain.Friendship) error {
	if f.UserID1 == f.UserID2 {
		return domain.ErrSelfFriendship
	}
	f.UserID1, f.UserID2 = domain.FriendshipKey(f.UserID1, f.UserID2)
	m.pairs[[2]int64{f.UserID1, f.UserID2}] = *f
	return nil
}

func (m *memFriendships) ListFor(userID int64) ([]*domain.Friendship, error) {
	var list []*domain.Friendship
	for _, f := range m.pairs {
		if f.Includes(userID) {
			f := f
			list = append(list, &f)
		}
	}
	return list, nil
}

type memHobbies struct {
	hobbies map[string]*domain.Hobby
}

func (m *memHobbies) GetByID(id string) (*domain.Hobby, error) {
	h, ok := m.hobbies[id]
	if !ok {
		return nil, nil
	}
	c := *h
	return &c, nil
}

func (m *memHobbies) GetAll() ([]*domain.Hobby, error) {
	var all []*domain.Hobby
	for _, h := range m.hobbies {
		c := *h
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Price < all[j].Price })
	return all, nil
}

func (m *memHobbies) Save(h *domain.Hobby) error {
	m.hobbies[h.ID] = h
	return nil
}

type memCoop struct {
	sessions []*domain.CoopSession
}

func (m *memCoop) Create(s *domain.CoopSession) error {
	m.sessions = append(m.sessions, s)
	return nil
}

func (m *memCoop) GetByID(id string) (*domain.CoopSession, error) {
	for _, s := range m.sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memCoop) CountForUser(userID int64) (int, error) {
	n := 0
	for _, s := range m.sessions {
		for _, id := range s.UserIDs {
			if id == userID {
				n++
			}
		}
	}
	return n, nil
}

type memStats struct {
	counters map[int64]map[domain.Counter]int
}

func (m *memStats) Get(userID int64) (*domain.ActivityStats, error) {
	c := m.counters[userID]
	return &domain.ActivityStats{
		UserID:            userID,
		TotalSleepMinutes: c[domain.CounterSleepMinutes],
		FeedEvents:        c[domain.CounterFeedEvents],
		WaterEvents:       c[domain.CounterWaterEvents],
		WorkSessions:      c[domain.CounterWorkSessions],
		HobbySessions:     c[domain.CounterHobbySessions],
	}, nil
}

func (m *memStats) Add(userID int64, counter domain.Counter, delta int) error {
	if delta <= 0 {
		return nil
	}
	if m.counters[userID] == nil {
		m.counters[userID] = make(map[domain.Counter]int)
	}
	m.counters[userID][counter] += delta
	return nil
}

type fakeMembership struct {
	member bool
	err    error
	calls  int
}

func (f *fakeMembership) IsMember(ctx context.Context, userID int64) (bool, error) {
	f.calls++
	return f.member, f.err
}

// testEnv is a service over in-memory storage with a controllable clock
type testEnv struct {
	svc        *OtterService
	users      *memUsers
	friends    *memFriendships
	coop       *memCoop
	stats      *memStats
	membership *fakeMembership
	now        time.Time
}

var t0 = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	friends := &memFriendships{pairs: make(map[[2]int64]domain.Friendship)}
	env := &testEnv{
		users:      &memUsers{docs: make(map[int64][]byte), friends: friends},
		friends:    friends,
		coop:       &memCoop{},
		stats:      &memStats{counters: make(map[int64]map[domain.Counter]int)},
		membership: &fakeMembership{},
		now:        t0,
	}
	hobbies := &memHobbies{hobbies: map[string]*domain.Hobby{
		"walk":    {ID: "walk", Title: "Прогулка", Type: domain.HobbySport},
		"drawing": {ID: "drawing", Title: "Рисование", Price: 30, Type: domain.HobbyCreative},
	}}
	for _, h := range hobbies.hobbies {
		h.ApplyDefaults()
	}

	env.svc = NewOtterService(Repositories{
		Users:       env.users,
		Friendships: friends,
		Hobbies:     hobbies,
		Coop:        env.coop,
		Stats:       env.stats,
	}, env.membership, time.UTC)
	env.svc.now = func() time.Time { return env.now }
	env.svc.rng = rand.New(rand.NewPCG(1, 2))
	return env
}

// newOtter registers a user with an otter created at the current clock
func (e *testEnv) newOtter(t *testing.T, userID int64, name string) {
	t.Helper()
	u, err := e.svc.CreatePet(userID, name)
	if err != nil {
		t.Fatalf("CreatePet(%d) failed: %v", userID, err)
	}
	u.Settings.Timezone = "UTC"
	if err := e.users.Save(u); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}

// edit changes a stored user directly
func (e *testEnv) edit(t *testing.T, userID int64, fn func(u *domain.UserState)) {
	t.Helper()
	u, err := e.users.GetByID(userID)
	if err != nil || u == nil {
		t.Fatalf("GetByID(%d) = %v, %v", userID, u, err)
	}
	fn(u)
	if err := e.users.Save(u); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}

func (e *testEnv) load(t *testing.T, userID int64) *domain.UserState {
	t.Helper()
	u, err := e.users.GetByID(userID)
	if err != nil || u == nil {
		t.Fatalf("GetByID(%d) = %v, %v", userID, u, err)
	}
	return u
}
