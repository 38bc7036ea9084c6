package generator

import "strings"

// Strength is the result of scoring a password.
type Strength struct {
	// Score is 0..100, higher is stronger.
	Score int

	// Label is the human-readable bracket of the score.
	Label string

	// Suggestions lists concrete improvements, empty for a strong password.
	Suggestions []string
}

// commonPatterns are substrings that immediately weaken a password
// regardless of its other properties.
var commonPatterns = []string{"123456", "password", "qwerty", "abc", "000"}

// Score rates a password 0..100 from its length, character variety,
// known weak patterns, and repetition.
func Score(password string) Strength {
	score := 0
	var suggestions []string

	switch {
	case len(password) >= 12:
		score += 25
	case len(password) >= 8:
		score += 15
	default:
		suggestions = append(suggestions, "Use at least 8 characters")
	}

	hasLower := strings.ContainsAny(password, lowercase)
	hasUpper := strings.ContainsAny(password, uppercase)
	hasDigit := strings.ContainsAny(password, digits)
	hasSymbol := strings.ContainsAny(password, symbols)

	for _, has := range []bool{hasLower, hasUpper, hasDigit, hasSymbol} {
		if has {
			score += 15
		}
	}
	if !hasLower {
		suggestions = append(suggestions, "Add lowercase letters")
	}
	if !hasUpper {
		suggestions = append(suggestions, "Add uppercase letters")
	}
	if !hasDigit {
		suggestions = append(suggestions, "Add numbers")
	}
	if !hasSymbol {
		suggestions = append(suggestions, "Add special characters")
	}

	lowered := strings.ToLower(password)
	for _, pattern := range commonPatterns {
		if strings.Contains(lowered, pattern) {
			score -= 10
			suggestions = append(suggestions, "Avoid common patterns like '"+pattern+"'")
		}
	}

	if repetitive(password) {
		score -= 10
		suggestions = append(suggestions, "Avoid too much repetition")
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Strength{Score: score, Label: label(score), Suggestions: suggestions}
}

// repetitive reports whether fewer than 60% of the characters are distinct.
func repetitive(password string) bool {
	if password == "" {
		return false
	}
	distinct := make(map[rune]struct{}, len(password))
	for _, r := range password {
		distinct[r] = struct{}{}
	}
	return float64(len(distinct)) < float64(len([]rune(password)))*0.6
}

func label(score int) string {
	switch {
	case score >= 80:
		return "Very Strong"
	case score >= 60:
		return "Strong"
	case score >= 40:
		return "Moderate"
	case score >= 20:
		return "Weak"
	default:
		return "Very Weak"
	}
}
