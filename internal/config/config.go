// File path: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ykosuru/cobolscan/internal/common"
)

// Config is the engine configuration surface. Within-range values are
// taken as-is; out-of-range values are re-defaulted rather than rejected
// so a sloppy configuration never turns a best-effort analysis into a
// hard failure.
type Config struct {
	Preprocess       bool     `mapstructure:"preprocess"`
	GrammarDetection bool     `mapstructure:"grammar_detection"`
	PatternDetection bool     `mapstructure:"pattern_detection"`
	HybridMode       bool     `mapstructure:"hybrid_mode"`
	MinScore         float64  `mapstructure:"min_score"`
	NamingBonus      float64  `mapstructure:"naming_bonus"`
	WeightIf         float64  `mapstructure:"weight_if"`
	WeightPerform    float64  `mapstructure:"weight_perform"`
	WeightEvaluate   float64  `mapstructure:"weight_evaluate"`
	WeightGoTo       float64  `mapstructure:"weight_goto"`
	WeightCall       float64  `mapstructure:"weight_call"`
	Exclusions       []string `mapstructure:"exclusions"`
	Strict           bool     `mapstructure:"strict"`
	Format           string   `mapstructure:"format"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		Preprocess:       true,
		GrammarDetection: true,
		PatternDetection: true,
		HybridMode:       true,
		MinScore:         1,
		NamingBonus:      10,
		WeightIf:         2,
		WeightPerform:    1,
		WeightEvaluate:   2,
		WeightGoTo:       1,
		WeightCall:       2,
		Format:           "auto",
	}
}

// Load reads configuration from an optional .env file, the environment
// (COBOLSCAN_ prefix) and any config file viper already located.
func Load() (Config, error) {
	logger := common.Logger()
	if err := godotenv.Load(); err == nil {
		logger.Debug("config: environment loaded from .env")
	}
	v := viper.GetViper()
	v.SetEnvPrefix("COBOLSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	cfg := Default()
	setDefaults(v, cfg)
	if err := v.Unmarshal(&cfg); err != nil {
		return Default(), fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("preprocess", cfg.Preprocess)
	v.SetDefault("grammar_detection", cfg.GrammarDetection)
	v.SetDefault("pattern_detection", cfg.PatternDetection)
	v.SetDefault("hybrid_mode", cfg.HybridMode)
	v.SetDefault("min_score", cfg.MinScore)
	v.SetDefault("naming_bonus", cfg.NamingBonus)
	v.SetDefault("weight_if", cfg.WeightIf)
	v.SetDefault("weight_perform", cfg.WeightPerform)
	v.SetDefault("weight_evaluate", cfg.WeightEvaluate)
	v.SetDefault("weight_goto", cfg.WeightGoTo)
	v.SetDefault("weight_call", cfg.WeightCall)
	v.SetDefault("exclusions", cfg.Exclusions)
	v.SetDefault("strict", cfg.Strict)
	v.SetDefault("format", cfg.Format)
}

// Normalize clamps out-of-range values back to their defaults.
func (c *Config) Normalize() {
	def := Default()
	if c.MinScore < 0 {
		c.MinScore = def.MinScore
	}
	if c.NamingBonus < 0 {
		c.NamingBonus = def.NamingBonus
	}
	for _, w := range []*float64{&c.WeightIf, &c.WeightPerform, &c.WeightEvaluate, &c.WeightGoTo, &c.WeightCall} {
		if *w < 0 {
			*w = 0
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.Format)) {
	case "fixed", "free", "auto":
		c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	default:
		c.Format = def.Format
	}
	cleaned := c.Exclusions[:0]
	for _, name := range c.Exclusions {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cleaned = append(cleaned, strings.ToUpper(trimmed))
		}
	}
	c.Exclusions = cleaned
}
