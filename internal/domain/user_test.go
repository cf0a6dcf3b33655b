package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestUserStateRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC)

	user := NewUserState(42, "Буся", "Europe/Moscow")
	user.Pet.Happiness = 37
	user.Pet.Money = 120
	user.Pet.LastInteraction = At(now)
	user.Pet.CriticalStateSince = At(now.Add(-2 * time.Hour))
	user.Pet.UnlockHobby("yoga")
	user.Pet.HobbyMastery["yoga"] = &HobbyMastery{HobbyID: "yoga", Level: 2, TotalSessions: 4, Streak: 3, LastSessionDate: "2024-03-09"}
	user.LastReminders["lunch"] = "2024-03-10"
	user.WorkHoursByDate["2024-03-10"] = 2.5
	user.TodayStats("2024-03-10").SleepMinutes = 420
	user.AdviceState.ShownAdviceIDs = []string{"water_1"}
	user.AdviceState.MonthlyAdviceSummary["water"] = []string{"water_1"}
	user.AdviceState.WeeklyAnswers["2024-03-10"] = true
	user.Friendships[7] = &Friendship{
		UserID1:               7,
		UserID2:               42,
		FriendshipLevel:       2,
		TotalSessionsTogether: 4,
		FirstMetDate:          At(now.Add(-48 * time.Hour)),
		LastInteraction:       At(now),
	}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded UserState
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	again, err := json.Marshal(&decoded)
	if err != nil {
		t.Fatalf("second Marshal failed: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Fatalf("round trip changed the record:\n%s\n%s", data, again)
	}

	if !decoded.Pet.LastInteraction.Equal(now) {
		t.Errorf("LastInteraction = %v, want %v", decoded.Pet.LastInteraction, now)
	}
	f := decoded.Friendships[7]
	if f == nil || f.TotalSessionsTogether != 4 || f.FriendshipLevel != 2 {
		t.Errorf("friendship not preserved: %+v", f)
	}
	if decoded.Pet.HobbyMastery["yoga"].Streak != 3 {
		t.Errorf("mastery not preserved: %+v", decoded.Pet.HobbyMastery["yoga"])
	}
}

func TestTimestampLenientDecoding(t *testing.T) {
	tests := []struct {
		name  string
		input string
		isSet bool
		want  time.Time
	}{
		{"rfc3339 with offset", `"2024-01-02T03:04:05+03:00"`, true, time.Date(2024, 1, 2, 0, 4, 5, 0, time.UTC)},
		{"fractional utc", `"2024-01-02T03:04:05.123456Z"`, true, time.Date(2024, 1, 2, 3, 4, 5, 123456000, time.UTC)},
		{"naive iso", `"2024-01-02T03:04:05.5"`, true, time.Date(2024, 1, 2, 3, 4, 5, 500000000, time.UTC)},
		{"null", `null`, false, time.Time{}},
		{"garbage", `"yesterday"`, false, time.Time{}},
		{"number", `12345`, false, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
				t.Fatalf("Unmarshal returned error: %v", err)
			}
			if ts.IsSet() != tt.isSet {
				t.Fatalf("IsSet = %v, want %v", ts.IsSet(), tt.isSet)
			}
			if tt.isSet && !ts.Equal(tt.want) {
				t.Errorf("got %v, want %v", ts.Time, tt.want)
			}
		})
	}
}

func TestNormalizeRepairsRecord(t *testing.T) {
	raw := `{"user_id": 5, "pet": {"happiness": 140, "hunger": -3, "hobby_mastery": {"gym": {"level": 0}}}, "settings": {}}`

	user := NewUserState(0, "", "")
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	user.Normalize()

	if user.UserID != 5 {
		t.Errorf("UserID = %d, want 5", user.UserID)
	}
	if user.Pet.Happiness != 100 || user.Pet.Hunger != 0 {
		t.Errorf("vitals not clamped: happiness=%d hunger=%d", user.Pet.Happiness, user.Pet.Hunger)
	}
	if user.Pet.Thirst != DefaultVital || !user.Pet.IsAlive {
		t.Errorf("missing fields should keep defaults: %+v", user.Pet)
	}
	if user.Pet.Name != DefaultPetName {
		t.Errorf("Name = %q, want %q", user.Pet.Name, DefaultPetName)
	}
	if m := user.Pet.HobbyMastery["gym"]; m.Level != 1 || m.HobbyID != "gym" {
		t.Errorf("mastery not repaired: %+v", m)
	}
	if user.Settings.Timezone != DefaultTimezone || user.Settings.GlassVolumeML != DefaultGlassVolumeML {
		t.Errorf("settings not repaired: %+v", user.Settings)
	}
	if user.Friendships == nil || user.LastReminders == nil || user.AdviceState.WeeklyAnswers == nil {
		t.Error("maps should be initialized")
	}
}

func TestLocationFallback(t *testing.T) {
	fallback := time.FixedZone("fallback", 3600)
	user := NewUserState(1, "", "Not/AZone")

	if loc := user.Location(fallback); loc != fallback {
		t.Errorf("Location = %v, want fallback", loc)
	}

	user.Settings.Timezone = "UTC"
	if loc := user.Location(fallback); loc.String() != "UTC" {
		t.Errorf("Location = %v, want UTC", loc)
	}
}
