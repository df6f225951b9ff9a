package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Bot.Token == "" {
		return fmt.Errorf("bot.token must not be empty")
	}
	if c.Bot.PollTimeout <= 0 {
		return fmt.Errorf("bot.poll_timeout must be > 0 (got %v)", c.Bot.PollTimeout)
	}

	if err := c.Study.validate(); err != nil {
		return fmt.Errorf("study: %w", err)
	}

	if c.Conversation.TTL <= 0 {
		return fmt.Errorf("conversation.ttl must be > 0 (got %v)", c.Conversation.TTL)
	}
	if c.Conversation.SweepInterval <= 0 {
		return fmt.Errorf("conversation.sweep_interval must be > 0 (got %v)", c.Conversation.SweepInterval)
	}

	return nil
}

func (s *StudyConfig) validate() error {
	if s.ChoicesPerRound < 2 {
		return fmt.Errorf("choices_per_round must be >= 2 (got %d)", s.ChoicesPerRound)
	}
	// A round draws ChoicesPerRound distinct cards, so the deck threshold
	// may not fall below the draw size.
	if s.MinDeckSize < s.ChoicesPerRound {
		return fmt.Errorf("min_deck_size must be >= choices_per_round (got %d < %d)", s.MinDeckSize, s.ChoicesPerRound)
	}
	return nil
}
