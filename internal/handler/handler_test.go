package handler

import (
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestParseCommand(t *testing.T) {
	msg := &models.Message{
		Text: "/subscribe now",
		Entities: []models.MessageEntity{
			{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: 10},
		},
	}
	cmd, args, ok := parseCommand(msg)
	if !ok || cmd != "subscribe" || args != "now" {
		t.Fatalf("parseCommand = %q, %q, %v", cmd, args, ok)
	}
}

func TestParseCommand_BotSuffix(t *testing.T) {
	msg := &models.Message{
		Text: "/start@astro_bot",
		Entities: []models.MessageEntity{
			{Type: models.MessageEntityTypeBotCommand, Offset: 0, Length: 16},
		},
	}
	cmd, _, ok := parseCommand(msg)
	if !ok || cmd != "start" {
		t.Fatalf("parseCommand = %q, %v", cmd, ok)
	}
}

func TestParseCommand_PlainText(t *testing.T) {
	msg := &models.Message{Text: "1990-04-15"}
	if _, _, ok := parseCommand(msg); ok {
		t.Fatal("plain text must not parse as a command")
	}
}
