package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-1.5-flash"

// Gemini generates replies through Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed generator.
func NewGemini(apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = defaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return fmt.Sprintf("gemini:%s", g.model) }

// Generate drafts a reply. Provider failures are logged and reported as
// a decline so the caller's cascade can continue.
func (g *Gemini) Generate(ctx context.Context, prompt PromptContext) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(buildPrompt(prompt), genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model, contents,
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](0.5),
			TopP:            genai.Ptr[float32](0.9),
			MaxOutputTokens: 180,
		},
	)
	if err != nil {
		slog.Warn("gemini request failed", "model", g.model, "error", err)
		return "", nil
	}

	return strings.TrimSpace(result.Text()), nil
}

func buildPrompt(p PromptContext) string {
	languageLine := "Responda em português (pt-BR)."
	if strings.HasPrefix(strings.ToLower(p.Locale), "en") {
		languageLine = "Reply in English (en-US)."
	}

	gold := "unknown"
	if p.State.Gold != nil {
		gold = fmt.Sprintf("%d", *p.State.Gold)
	}

	selfItems := strings.Join(p.State.SelfItems, ", ")
	if selfItems == "" {
		selfItems = "none"
	}

	var enemyItemParts []string
	for champion, items := range p.State.EnemyItems {
		if len(items) > 0 {
			enemyItemParts = append(enemyItemParts,
				fmt.Sprintf("%s: %s", champion, strings.Join(items, ", ")))
		}
	}
	enemyItems := strings.Join(enemyItemParts, "; ")
	if enemyItems == "" {
		enemyItems = "none"
	}

	history := p.History
	if len(history) > 4 {
		history = history[len(history)-4:]
	}
	var historyLines []string
	for _, turn := range history {
		if turn.Text != "" {
			historyLines = append(historyLines, "User: "+turn.Text)
		}
		if turn.Reply != "" {
			historyLines = append(historyLines, "Coach: "+turn.Reply)
		}
	}
	historyBlock := strings.Join(historyLines, "\n")
	if historyBlock == "" {
		historyBlock = "none"
	}

	advice := p.Advice
	if len(advice) > 3 {
		advice = advice[:3]
	}
	var adviceLines []string
	for _, tip := range advice {
		adviceLines = append(adviceLines, "- "+tip)
	}
	adviceBlock := strings.Join(adviceLines, "\n")
	if adviceBlock == "" {
		adviceBlock = "none"
	}

	var b strings.Builder
	b.WriteString("You are NexusCoach, an in-game Wild Rift voice coach. ")
	b.WriteString("Be short, tactical, and friendly. ")
	b.WriteString("Avoid technical explanations. ")
	b.WriteString("If context is missing, ask one short question. ")
	b.WriteString("Keep answers under 3 sentences.\n")
	b.WriteString(languageLine)
	b.WriteString("\n\nContext:\n")
	fmt.Fprintf(&b, "- Champion: %s\n", orUnknown(p.State.Champion))
	fmt.Fprintf(&b, "- Lane: %s\n", orUnknown(p.State.Lane))
	fmt.Fprintf(&b, "- Matchup: %s\n", orUnknown(p.State.Enemy))
	fmt.Fprintf(&b, "- Phase: %s\n", orUnknown(p.State.GamePhase))
	fmt.Fprintf(&b, "- Status: %s\n", orUnknown(p.State.Status))
	fmt.Fprintf(&b, "- Gold: %s\n", gold)
	fmt.Fprintf(&b, "- Your items: %s\n", selfItems)
	fmt.Fprintf(&b, "- Enemy items: %s\n", enemyItems)
	fmt.Fprintf(&b, "- Intent hint: %s\n", p.Intent)
	lastReply := p.State.LastReply
	if lastReply == "" {
		lastReply = "none"
	}
	fmt.Fprintf(&b, "- Last coach tip: %s\n", lastReply)

	if len(p.Corrections) > 0 {
		b.WriteString("\nVerified facts (trust these over your training data):\n")
		for _, c := range p.Corrections {
			label := c.Champion
			if c.Ability != "" {
				label += " " + c.Ability
			}
			fmt.Fprintf(&b, "- %s: %s\n", label, c.CorrectInfo)
		}
	}

	b.WriteString("\nUseful tips from memory:\n")
	b.WriteString(adviceBlock)
	b.WriteString("\n\nRecent conversation:\n")
	b.WriteString(historyBlock)
	b.WriteString("\n\nUser message:\n")
	b.WriteString(p.UserText)
	b.WriteString("\n")
	return b.String()
}

func orUnknown(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
