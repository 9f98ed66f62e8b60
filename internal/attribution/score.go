package attribution

import "strings"

var sourceScores = map[string]int{
	"google": 20, "linkedin": 15, "facebook": 10,
	"instagram": 10, "twitter": 8, "email": 15,
	"direct": 12, "bing": 15, "youtube": 10,
}

var mediumScores = map[string]int{
	"cpc": 15, "paid": 12, "organic": 10,
	"social": 8, "email": 12, "referral": 10,
}

// Score estimates lead quality from the acquisition context, 0-100.
// Base 50, bonuses per source/medium and per contact channel supplied.
func Score(utmSource, utmMedium string, hasEmail, hasPhone bool) int {
	score := 50

	if utmSource != "" {
		if bonus, ok := sourceScores[strings.ToLower(utmSource)]; ok {
			score += bonus
		} else {
			score += 5
		}
	}

	if utmMedium != "" {
		if bonus, ok := mediumScores[strings.ToLower(utmMedium)]; ok {
			score += bonus
		} else {
			score += 5
		}
	}

	if hasEmail {
		score += 10
	}
	if hasPhone {
		score += 5
	}

	if score > 100 {
		score = 100
	}
	return score
}
