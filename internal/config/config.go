package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Economy
	MarginPercent     float64 `env:"MARGIN_PERCENT" envDefault:"15"`
	InvitePoints      float64 `env:"INVITE_POINTS" envDefault:"5"`
	InviteBonusPoints float64 `env:"INVITE_BONUS_POINTS" envDefault:"1"`
	InviteTickets     int     `env:"INVITE_TICKETS" envDefault:"1"`

	// Vault
	VaultCapacity  int `env:"VAULT_CAPACITY" envDefault:"10000"`
	DailySpinLimit int `env:"DAILY_SPIN_LIMIT" envDefault:"10"`

	// Bot behavior
	DropPendingUpdates bool `env:"BOT_DROP_PENDING_UPDATES" envDefault:"false"`

	// Telegram event delivery
	EventChatID           int64 `env:"EVENT_TELEGRAM_CHAT_ID"`
	EventTopicLevelUp     int   `env:"EVENT_TOPIC_LEVEL_UP"`
	EventTopicReservation int   `env:"EVENT_TOPIC_RESERVATION"`
	EventTopicProof       int   `env:"EVENT_TOPIC_PROOF"`
	EventTopicInvite      int   `env:"EVENT_TOPIC_INVITE"`
	EventTopicPrize       int   `env:"EVENT_TOPIC_PRIZE"`
	EventTopicTask        int   `env:"EVENT_TOPIC_TASK"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsAdmin(id int64) bool {
	for _, a := range c.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}
