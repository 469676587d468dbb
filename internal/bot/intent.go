package bot

import "strings"

type intent int

const (
	intentNone intent = iota
	intentGreeting
	intentMoney
	intentMoreMoney
	intentWhoAreYou
	intentHelp
	intentWhoAmI
	intentRooms
)

// Accepted phrases per intent. Matching is case-insensitive whole-string
// comparison, no tokenization. Phrase sets are disjoint by construction.
var intentPhrases = map[intent][]string{
	intentGreeting:  {"hi"},
	intentMoney:     {"show me the money"},
	intentMoreMoney: {"show me more money"},
	intentWhoAreYou: {"who are you?", "who are you"},
	intentHelp:      {"how can you help me?", "how can you help me", "help", "menu"},
	intentWhoAmI:    {"who am i?", "who am i"},
	intentRooms:     {"which rooms", "which rooms?"},
}

// matchIntent maps message text to the intent it triggers, if any.
func matchIntent(text string) (intent, bool) {
	normalized := strings.ToLower(text)
	for id, phrases := range intentPhrases {
		for _, phrase := range phrases {
			if normalized == phrase {
				return id, true
			}
		}
	}
	return intentNone, false
}
