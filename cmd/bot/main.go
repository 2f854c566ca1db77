package main

import (
	"telegram-astrology-bot/internal/bot"
)

func main() {
	bot.Run()
}
