package config

// TelegramConfig holds the bot token both binaries authenticate with.
type TelegramConfig struct {
	BotToken string `yaml:"token"`
}

func (t *TelegramConfig) Token() string {
	return t.BotToken
}
