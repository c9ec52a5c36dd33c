package onboarding

import (
	"strings"
	"unicode/utf8"
)

// Strength classifies a password score.
type Strength string

const (
	StrengthWeak   Strength = "weak"
	StrengthMedium Strength = "medium"
	StrengthStrong Strength = "strong"
)

// Rule is one of the independent password requirements.
type Rule string

const (
	RuleLength Rule = "length"
	RuleUpper  Rule = "upper"
	RuleLower  Rule = "lower"
	RuleDigit  Rule = "digit"
	RuleSymbol Rule = "symbol"
)

const (
	minPasswordLength = 8
	passwordSymbols   = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`
)

// Rules lists the requirements in display order.
func Rules() []Rule {
	return []Rule{RuleLength, RuleUpper, RuleLower, RuleDigit, RuleSymbol}
}

// PasswordReport is the result of EvaluatePassword.
type PasswordReport struct {
	Score    int      `json:"score"`
	Strength Strength `json:"strength"`
	Valid    bool     `json:"valid"`
	Missing  []Rule   `json:"missing,omitempty"`
}

// EvaluatePassword scores pw against the five rules. Only a strong password
// (all rules satisfied) is valid.
func EvaluatePassword(pw string) PasswordReport {
	checks := [...]struct {
		rule Rule
		ok   bool
	}{
		{RuleLength, utf8.RuneCountInString(pw) >= minPasswordLength},
		{RuleUpper, containsRange(pw, 'A', 'Z')},
		{RuleLower, containsRange(pw, 'a', 'z')},
		{RuleDigit, containsRange(pw, '0', '9')},
		{RuleSymbol, strings.ContainsAny(pw, passwordSymbols)},
	}

	var report PasswordReport
	for _, c := range checks {
		if c.ok {
			report.Score++
			continue
		}
		report.Missing = append(report.Missing, c.rule)
	}

	switch {
	case report.Score <= 2:
		report.Strength = StrengthWeak
	case report.Score <= 4:
		report.Strength = StrengthMedium
	default:
		report.Strength = StrengthStrong
	}
	report.Valid = report.Strength == StrengthStrong
	return report
}

func containsRange(s string, lo, hi rune) bool {
	for _, r := range s {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}
