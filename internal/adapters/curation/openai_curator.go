package curation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"trip-itinerary-service/internal/domain"
)

const systemPrompt = "You are a travel planner. Group the given attractions into " +
	"day-by-day visit plans. Keep geographically close attractions on the same day " +
	"and respect the must-see flags. Answer with JSON only, no prose: " +
	`{"days": [["id", ...], ...]} with exactly one array per trip day.`

const maxPerDay = 5

// OpenAICurator asks a chat model to group the attraction pool into days.
// Any failure (transport, refusal, malformed answer) surfaces as an error so
// the assembler falls back to round-robin allocation; curation is an
// enhancement, never a dependency.
type OpenAICurator struct {
	client openai.Client
	model  openai.ChatModel
}

func NewOpenAICurator(apiKey, model string) *OpenAICurator {
	m := openai.ChatModel(model)
	if model == "" {
		m = openai.ChatModelGPT4oMini
	}
	return &OpenAICurator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  m,
	}
}

func (c *OpenAICurator) PlanDays(
	ctx context.Context,
	prefs domain.TripPreferences,
	pool []domain.Attraction,
	days int,
) ([][]domain.Attraction, error) {
	if days <= 0 || len(pool) == 0 {
		return nil, nil
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildPrompt(prefs, pool, days)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("curate days: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("curate days: empty completion")
	}

	groups, err := parseDayGroups(resp.Choices[0].Message.Content, pool, days)
	if err != nil {
		return nil, fmt.Errorf("curate days: %w", err)
	}
	return groups, nil
}

func buildPrompt(prefs domain.TripPreferences, pool []domain.Attraction, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Trip: %d days in %s, group of %d.\n", days, prefs.Destination, prefs.GroupSize)
	if len(prefs.ActivityTypes) > 0 {
		fmt.Fprintf(&b, "Preferred activity types: %s.\n", strings.Join(prefs.ActivityTypes, ", "))
	}
	b.WriteString("Attractions:\n")
	for _, a := range pool {
		fmt.Fprintf(&b, "- id=%s name=%q type=%s lat=%.4f lng=%.4f duration=%dmin must_see=%t rating=%.1f\n",
			a.ID, a.Name, a.Type, a.Coord.Lat, a.Coord.Lon, a.DurationMin, a.MustSee, a.Rating)
	}
	fmt.Fprintf(&b, "Return %d day arrays, at most %d ids per day.", days, maxPerDay)
	return b.String()
}

// parseDayGroups validates the model answer against the real pool: unknown
// ids are dropped, repeats keep their first assignment, day counts are
// clamped. A structurally wrong answer is an error, not a best guess.
func parseDayGroups(content string, pool []domain.Attraction, days int) ([][]domain.Attraction, error) {
	var payload struct {
		Days [][]string `json:"days"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &payload); err != nil {
		return nil, fmt.Errorf("decode answer: %w", err)
	}
	if len(payload.Days) != days {
		return nil, fmt.Errorf("answer has %d day groups, want %d", len(payload.Days), days)
	}

	byID := make(map[string]domain.Attraction, len(pool))
	for _, a := range pool {
		byID[a.ID] = a
	}

	assigned := 0
	seen := make(map[string]struct{}, len(pool))
	groups := make([][]domain.Attraction, days)
	for d, ids := range payload.Days {
		groups[d] = []domain.Attraction{}
		for _, id := range ids {
			a, known := byID[id]
			if !known {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			if len(groups[d]) >= maxPerDay {
				break
			}
			seen[id] = struct{}{}
			groups[d] = append(groups[d], a)
			assigned++
		}
	}

	if assigned == 0 {
		return nil, errors.New("answer assigned no known attraction ids")
	}
	return groups, nil
}

// stripFences tolerates a markdown-fenced JSON answer.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
