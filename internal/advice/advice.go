package advice

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/glebk/otter-bot/internal/domain"
)

// Texts used when there is nothing to report.
const (
	NoWeeklyAdvice  = "На этой неделе ты ещё не получал советы."
	NoMonthlyAdvice = "За этот месяц ты ещё не получал советы."
)

// Category groups advice for the monthly report
type Category struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
}

// Advice is one daily tip
type Advice struct {
	ID       string `yaml:"id"`
	Category string `yaml:"category"`
	Text     string `yaml:"text"`
}

// Rand is the subset of *rand.Rand used to pick advice
type Rand interface {
	IntN(n int) int
}

// Catalog holds every advice entry
type Catalog struct {
	Categories []Category `yaml:"categories"`
	Advice     []Advice   `yaml:"advice"`

	byID map[string]Advice
}

//go:embed advice.yaml
var embeddedAdvice []byte

var defaultCatalog = mustLoadEmbedded()

// Default returns the catalog compiled into the binary
func Default() *Catalog {
	return defaultCatalog
}

// Parse decodes a YAML advice catalog
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse advice: %w", err)
	}
	if len(c.Advice) == 0 {
		return nil, fmt.Errorf("advice catalog is empty")
	}

	categories := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		categories[cat.ID] = true
	}

	c.byID = make(map[string]Advice, len(c.Advice))
	for _, a := range c.Advice {
		if a.ID == "" || a.Text == "" {
			return nil, fmt.Errorf("advice entry without id or text: %+v", a)
		}
		if !categories[a.Category] {
			return nil, fmt.Errorf("advice %q has unknown category %q", a.ID, a.Category)
		}
		if _, ok := c.byID[a.ID]; ok {
			return nil, fmt.Errorf("duplicate advice id %q", a.ID)
		}
		c.byID[a.ID] = a
	}

	return &c, nil
}

func mustLoadEmbedded() *Catalog {
	c, err := Parse(embeddedAdvice)
	if err != nil {
		panic(err)
	}
	return c
}

// WeekStart returns the Monday of the ISO week containing date
func WeekStart(date string) (string, error) {
	d, err := time.Parse(domain.DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("failed to parse date %q: %w", date, err)
	}
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset).Format(domain.DateLayout), nil
}

// ForToday picks one advice the user has not seen this week.
// Only one advice is handed out per local day.
func (c *Catalog) ForToday(st *domain.AdviceState, today string, rng Rand) (Advice, error) {
	if st.LastAdviceDate == today {
		return Advice{}, domain.ErrAdviceAlreadyShown
	}

	weekStart, err := WeekStart(today)
	if err != nil {
		return Advice{}, err
	}
	if st.WeekStartDate != weekStart {
		st.WeekStartDate = weekStart
		st.ShownAdviceIDs = []string{}
	}

	shown := make(map[string]bool, len(st.ShownAdviceIDs))
	for _, id := range st.ShownAdviceIDs {
		shown[id] = true
	}
	var candidates []Advice
	for _, a := range c.Advice {
		if !shown[a.ID] {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		candidates = c.Advice
		st.ShownAdviceIDs = []string{}
	}

	a := candidates[rng.IntN(len(candidates))]

	st.ShownAdviceIDs = append(st.ShownAdviceIDs, a.ID)
	st.LastAdviceDate = today
	if st.MonthlyAdviceSummary == nil {
		st.MonthlyAdviceSummary = make(map[string][]string)
	}
	st.MonthlyAdviceSummary[a.Category] = append(st.MonthlyAdviceSummary[a.Category], a.ID)
	if st.FirstAdviceDate == "" {
		st.FirstAdviceDate = today
	}

	return a, nil
}

// WeeklySummary lists the advice shown during the current week
func (c *Catalog) WeeklySummary(st *domain.AdviceState) string {
	var lines []string
	for _, id := range st.ShownAdviceIDs {
		if a, ok := c.byID[id]; ok {
			lines = append(lines, "• "+a.Text)
		}
	}
	if len(lines) == 0 {
		return NoWeeklyAdvice
	}

	return fmt.Sprintf("За эту неделю ты получил(а) советов: %d\n\n%s", len(lines), strings.Join(lines, "\n"))
}

// MonthlySummary counts advice per category since FirstAdviceDate
func (c *Catalog) MonthlySummary(st *domain.AdviceState) string {
	var b strings.Builder
	total := 0
	for _, cat := range c.Categories {
		n := len(st.MonthlyAdviceSummary[cat.ID])
		if n == 0 {
			continue
		}
		total += n
		fmt.Fprintf(&b, "%s: %d\n", cat.Title, n)
	}
	if total == 0 {
		return NoMonthlyAdvice
	}

	followed := 0
	for _, yes := range st.WeeklyAnswers {
		if yes {
			followed++
		}
	}

	summary := fmt.Sprintf("За месяц ты получил(а) советов: %d\n\n%s", total, b.String())
	if len(st.WeeklyAnswers) > 0 {
		summary += fmt.Sprintf("\n✅ Ты следовал(а) советам %d из %d недель.", followed, len(st.WeeklyAnswers))
	}
	return summary
}

// RecordWeeklyAnswer stores whether the user followed the advice this week
func RecordWeeklyAnswer(st *domain.AdviceState, today string, followed bool) {
	if st.WeeklyAnswers == nil {
		st.WeeklyAnswers = make(map[string]bool)
	}
	st.WeeklyAnswers[today] = followed
}

// ResetMonth starts a new monthly period after the report was delivered
func ResetMonth(st *domain.AdviceState, today string) {
	st.MonthlyAdviceSummary = make(map[string][]string)
	st.WeeklyAnswers = make(map[string]bool)
	st.FirstAdviceDate = today
}
