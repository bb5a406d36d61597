package schema

import (
	"fmt"
	"strings"

	"github.com/povarna/ai-output-validator/internal/models"
)

// HeuristicConfig holds the thresholds for the name plausibility checks.
type HeuristicConfig struct {
	MinLength        int      `yaml:"min_length"`
	MinDistinctRatio float64  `yaml:"min_distinct_ratio"`
	KeyboardRun      int      `yaml:"keyboard_run"`
	RepeatRun        int      `yaml:"repeat_run"`
	Rows             []string `yaml:"rows"`
	Aliases          []string `yaml:"aliases"`
}

func DefaultHeuristicConfig() HeuristicConfig {
	return HeuristicConfig{
		MinLength:        2,
		MinDistinctRatio: 0.3,
		KeyboardRun:      4,
		RepeatRun:        3,
		Rows: []string{
			"qwertyuiop",
			"asdfghjkl",
			"zxcvbnm",
			"1234567890",
			"!@#$%^&*()",
		},
		Aliases: []string{
			"name",
			"customer_name",
			"full_name",
			"first_name",
			"last_name",
			"contact_name",
			"person_name",
		},
	}
}

// NameChecker scores person-name fields for plausibility without ML or
// dictionaries. Checks run in a fixed order and the first failure wins:
// minimum length, distinct-character ratio, keyboard-row sequences,
// repeated-character runs.
type NameChecker struct {
	cfg     HeuristicConfig
	aliases map[string]struct{}
	keys    map[rune]keyPosition
}

type keyPosition struct {
	row, idx int
}

func NewNameChecker(cfg HeuristicConfig) *NameChecker {
	defaults := DefaultHeuristicConfig()
	if cfg.MinLength == 0 {
		cfg.MinLength = defaults.MinLength
	}
	if cfg.MinDistinctRatio == 0 {
		cfg.MinDistinctRatio = defaults.MinDistinctRatio
	}
	if cfg.KeyboardRun == 0 {
		cfg.KeyboardRun = defaults.KeyboardRun
	}
	if cfg.RepeatRun == 0 {
		cfg.RepeatRun = defaults.RepeatRun
	}
	if len(cfg.Rows) == 0 {
		cfg.Rows = defaults.Rows
	}
	if len(cfg.Aliases) == 0 {
		cfg.Aliases = defaults.Aliases
	}

	aliases := make(map[string]struct{}, len(cfg.Aliases))
	for _, alias := range cfg.Aliases {
		aliases[strings.ToLower(alias)] = struct{}{}
	}

	keys := make(map[rune]keyPosition)
	for row, layout := range cfg.Rows {
		for idx, r := range layout {
			keys[r] = keyPosition{row: row, idx: idx}
		}
	}

	return &NameChecker{
		cfg:     cfg,
		aliases: aliases,
		keys:    keys,
	}
}

// IsNameField reports whether a field name should get the name heuristic.
// Matching is case-insensitive.
func (c *NameChecker) IsNameField(field string) bool {
	_, ok := c.aliases[strings.ToLower(field)]
	return ok
}

// Check runs the ordered heuristic checks against a string value.
func (c *NameChecker) Check(value any) *models.ValidationError {
	s, ok := value.(string)
	if !ok {
		return nil
	}

	name := []rune(strings.TrimSpace(s))

	if len(name) < c.cfg.MinLength {
		return nameError("too_short", fmt.Sprintf("name has %d characters, expected at least %d", len(name), c.cfg.MinLength))
	}

	lower := []rune(strings.ToLower(string(name)))

	distinct := make(map[rune]struct{}, len(lower))
	for _, r := range lower {
		distinct[r] = struct{}{}
	}
	ratio := float64(len(distinct)) / float64(len(lower))
	if ratio < c.cfg.MinDistinctRatio {
		return nameError("low_entropy", fmt.Sprintf("name repeats too few distinct characters (ratio %.2f)", ratio))
	}

	if run := c.longestKeyboardRun(lower); run >= c.cfg.KeyboardRun {
		return nameError("keyboard_pattern", fmt.Sprintf("name contains a keyboard sequence of %d characters", run))
	}

	if run := longestRepeatRun(lower); run >= c.cfg.RepeatRun {
		return nameError("repeating_chars", fmt.Sprintf("name repeats the same character %d times in a row", run))
	}

	return nil
}

// longestKeyboardRun tracks how many consecutive characters of the name walk
// a keyboard row left to right.
func (c *NameChecker) longestKeyboardRun(name []rune) int {
	longest, run := 0, 0

	for i, r := range name {
		pos, ok := c.keys[r]
		if !ok {
			run = 0
			continue
		}

		adjacent := false
		if i > 0 && run > 0 {
			if prev, okPrev := c.keys[name[i-1]]; okPrev && prev.row == pos.row && prev.idx+1 == pos.idx {
				adjacent = true
			}
		}

		if adjacent {
			run++
		} else {
			run = 1
		}

		if run > longest {
			longest = run
		}
	}

	return longest
}

func longestRepeatRun(name []rune) int {
	longest, run := 0, 0

	for i, r := range name {
		if i > 0 && name[i-1] == r {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	return longest
}

func nameError(reason, detail string) *models.ValidationError {
	return &models.ValidationError{
		Type:       models.KindInvalidName,
		Msg:        fmt.Sprintf("value does not look like a real name (%s): %s", reason, detail),
		Suggestion: "Provide a plausible person name",
	}
}
