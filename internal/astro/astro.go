// Package astro generates astrology readings through the OpenAI API.
package astro

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	model           = openai.ChatModelGPT4o
	natalMaxTokens  = 600
	dailyMaxTokens  = 500
	defaultLanguage = "en"
)

// Test seams.
var (
	newOpenAIClient = func(apiKey string) *openai.Client {
		c := openai.NewClient(option.WithAPIKey(apiKey))
		return &c
	}
	chatCompletion = func(ctx context.Context, client *openai.Client, params openai.ChatCompletionNewParams) (string, error) {
		resp, err := client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", errors.New("empty completion")
		}
		return resp.Choices[0].Message.Content, nil
	}
)

// Service is the forecast generator. It performs one synchronous API call
// per request with no retry.
type Service struct {
	apiKey string
}

func New(apiKey string) *Service {
	return &Service{apiKey: apiKey}
}

// NatalChart generates a natal chart interpretation for the given birth
// details. The birthdate must be an ISO-8601 date string; birthtime and
// birthplace are passed through as free text.
func (s *Service) NatalChart(ctx context.Context, name, birthdate, birthtime, birthplace, language string) (string, error) {
	if language == "" {
		language = defaultLanguage
	}
	system := fmt.Sprintf(
		"You are a professional astrologer providing natal chart interpretations. Respond in %s.",
		language)
	user := fmt.Sprintf(
		"Generate a natal chart interpretation for %s, born on %s at %s in %s. "+
			"Include personality traits, life themes, and potential opportunities. "+
			"Keep the tone warm and encouraging. Maximum 500 words.",
		name, birthdate, birthtime, birthplace)

	return s.complete(ctx, system, user, natalMaxTokens)
}

// DailyForecast generates a sectioned daily horoscope for the user.
func (s *Service) DailyForecast(ctx context.Context, name, language string) (string, error) {
	if language == "" {
		language = defaultLanguage
	}
	system := fmt.Sprintf(
		"You are a professional astrologer providing daily horoscope readings in %s. "+
			"Format your response exactly like this example:\n\n"+
			"\U0001F31F Overview\n[prediction text]\n\n"+
			"❤️ Love and relationships\n[prediction text]\n\n"+
			"\U0001F4BC Career and goals\n[prediction text]\n\n"+
			"\U0001F33F Health and wellbeing\n[prediction text]\n\n"+
			"✨ Affirmation of the day\n[affirmation text]\n\n"+
			"Important: Never use ### or other markdown. Use exactly one space between emoji and text.",
		language)
	user := fmt.Sprintf(
		"Generate a daily astrological forecast for %s. Make it personal and encouraging.",
		name)

	return s.complete(ctx, system, user, dailyMaxTokens)
}

func (s *Service) complete(ctx context.Context, system, user string, maxTokens int64) (string, error) {
	client := newOpenAIClient(s.apiKey)
	text, err := chatCompletion(ctx, client, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(maxTokens),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
