package astro

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/openai/openai-go/v2"
)

func stubCompletion(t *testing.T, reply string, err error) *openai.ChatCompletionNewParams {
	t.Helper()
	var captured openai.ChatCompletionNewParams
	origNew := newOpenAIClient
	origChat := chatCompletion
	newOpenAIClient = func(apiKey string) *openai.Client { return &openai.Client{} }
	chatCompletion = func(ctx context.Context, client *openai.Client, params openai.ChatCompletionNewParams) (string, error) {
		captured = params
		return reply, err
	}
	t.Cleanup(func() { newOpenAIClient = origNew; chatCompletion = origChat })
	return &captured
}

func messageText(u openai.ChatCompletionMessageParamUnion) string {
	if u.OfSystem != nil {
		return u.OfSystem.Content.OfString.Value
	}
	if u.OfUser != nil {
		return u.OfUser.Content.OfString.Value
	}
	return ""
}

func TestNatalChartPrompt(t *testing.T) {
	captured := stubCompletion(t, "  a reading \n", nil)
	s := New("key")

	got, err := s.NatalChart(context.Background(), "Alice", "1990-04-15", "14:30", "New York, USA", "en")
	if err != nil {
		t.Fatalf("NatalChart: %v", err)
	}
	if got != "a reading" {
		t.Fatalf("reply not trimmed: %q", got)
	}
	if captured.Model != model {
		t.Fatalf("model = %s, want %s", captured.Model, model)
	}
	if v := captured.MaxTokens.Value; v != natalMaxTokens {
		t.Fatalf("max tokens = %d, want %d", v, natalMaxTokens)
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(captured.Messages))
	}
	system := messageText(captured.Messages[0])
	if !strings.Contains(system, "astrologer") || !strings.Contains(system, "Respond in en") {
		t.Fatalf("unexpected system prompt: %q", system)
	}
	user := messageText(captured.Messages[1])
	for _, want := range []string{"Alice", "1990-04-15", "14:30", "New York, USA"} {
		if !strings.Contains(user, want) {
			t.Fatalf("user prompt missing %q: %q", want, user)
		}
	}
}

func TestDailyForecastPrompt(t *testing.T) {
	captured := stubCompletion(t, "forecast", nil)
	s := New("key")

	got, err := s.DailyForecast(context.Background(), "Alice", "")
	if err != nil {
		t.Fatalf("DailyForecast: %v", err)
	}
	if got != "forecast" {
		t.Fatalf("reply = %q", got)
	}
	if v := captured.MaxTokens.Value; v != dailyMaxTokens {
		t.Fatalf("max tokens = %d, want %d", v, dailyMaxTokens)
	}
	system := messageText(captured.Messages[0])
	if !strings.Contains(system, defaultLanguage) {
		t.Fatalf("empty language should fall back to %q: %q", defaultLanguage, system)
	}
	user := messageText(captured.Messages[1])
	if !strings.Contains(user, "Alice") {
		t.Fatalf("user prompt missing name: %q", user)
	}
}

func TestCompletionErrorPropagates(t *testing.T) {
	stubCompletion(t, "", errors.New("quota exceeded"))
	s := New("key")

	if _, err := s.NatalChart(context.Background(), "Alice", "1990-04-15", "14:30", "NYC", "en"); err == nil {
		t.Fatal("expected error")
	}
}
