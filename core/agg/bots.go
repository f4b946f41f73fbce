package agg

import (
	"strings"
	"unicode"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// BotFilter detects automation accounts by login, display name and email.
type BotFilter struct {
	indicators    []string
	emailPatterns []string
}

// NewBotFilter returns a filter for the configuration, or nil when filtering is disabled.
func NewBotFilter(cfg contract.BotConfig) *BotFilter {
	if !cfg.Enabled {
		return nil
	}
	f := &BotFilter{}
	for _, ind := range cfg.Indicators {
		if ind = strings.ToLower(strings.TrimSpace(ind)); ind != "" {
			f.indicators = append(f.indicators, ind)
		}
	}
	for _, p := range cfg.EmailPatterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			f.emailPatterns = append(f.emailPatterns, p)
		}
	}
	return f
}

// IsBot reports whether the account looks automated. A nil filter never matches.
func (f *BotFilter) IsBot(login, name, email string) bool {
	if f == nil {
		return false
	}
	login = strings.ToLower(strings.TrimSpace(login))
	name = strings.ToLower(strings.TrimSpace(name))
	if strings.HasSuffix(login, "[bot]") || strings.HasSuffix(name, "[bot]") {
		return true
	}

	for _, value := range []string{login, name} {
		if value == "" {
			continue
		}
		tokens := tokenize(value)
		for _, ind := range f.indicators {
			if _, short := schema.ShortBotIndicators[ind]; short {
				if _, ok := tokens[ind]; ok {
					return true
				}
				continue
			}
			if strings.Contains(value, ind) {
				return true
			}
		}
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	for _, p := range f.emailPatterns {
		if strings.Contains(email, p) {
			return true
		}
	}
	return false
}

// tokenize splits a login or name on anything that is not a letter or digit.
func tokenize(s string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[tok] = struct{}{}
	}
	return tokens
}
