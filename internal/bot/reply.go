package bot

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// reply is what a matched intent wants posted back to the room.
type reply struct {
	text  string
	files string
}

const (
	greetingText  = "Hello there!"
	goldText      = "Fancy some gold?"
	whoAreYouText = "Hum! You're curious! I'm a bot that wants to help you. Do you know Siri? Waaaay better."
	helpText      = "Here's what you can currently ask me: 'show me the money', 'show me more money', 'who am i?', 'who are you', 'which rooms'"

	moneyIconURL = "https://cdn3.iconfinder.com/data/icons/free-icons-3/128/004_money_dollar_cash_coins_riches_wealth.png"
	goldIconURL  = "https://cdn0.iconfinder.com/data/icons/ie_Bright/128/gold.png"
)

func (h *Handler) buildReply(ctx context.Context, id intent, ev inboundEvent) (reply, error) {
	switch id {
	case intentGreeting:
		return reply{text: greetingText}, nil
	case intentMoney:
		text := fmt.Sprintf("Here's your money, %s.\nYour Id is <%s>\nThe id of the message that triggered this interaction is <%s>",
			ev.personEmail, ev.personID, ev.messageID)
		return reply{text: text, files: moneyIconURL}, nil
	case intentMoreMoney:
		return reply{text: goldText, files: goldIconURL}, nil
	case intentWhoAreYou:
		return reply{text: whoAreYouText}, nil
	case intentHelp:
		return reply{text: helpText}, nil
	case intentWhoAmI:
		return h.identityReply(ctx, ev)
	case intentRooms:
		return h.roomsReply(ctx)
	}
	return reply{}, fmt.Errorf("no reply builder for intent %d", id)
}

// identityReply looks the sender up and reports name, email, profile
// creation date and account age.
func (h *Handler) identityReply(ctx context.Context, ev inboundEvent) (reply, error) {
	person, err := h.api.GetPersonDetails(ctx, ev.personID)
	if err != nil {
		return reply{}, err
	}
	if person == nil {
		return reply{}, fmt.Errorf("no person details for id <%s>", ev.personID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Looking Good, %s!!", person.DisplayName)
	fmt.Fprintf(&b, "\nYour email is %s", ev.personEmail)
	fmt.Fprintf(&b, "\nYour profile was created on %s (%s ago)",
		person.Created.Format("January 2, 2006"), formatAge(h.now().Sub(person.Created)))
	fmt.Fprintf(&b, "\nYour ID is <%s>", ev.personID)
	return reply{text: b.String(), files: person.Avatar}, nil
}

// roomsReply lists the titles of the group rooms the bot is part of,
// 1-indexed.
func (h *Handler) roomsReply(ctx context.Context) (reply, error) {
	rooms, err := h.api.GetRooms(ctx)
	if err != nil {
		return reply{}, err
	}

	var titles []string
	for _, room := range rooms.Items {
		if room.Type == "group" {
			titles = append(titles, room.Title)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I am part of %d conversations. Here's the list:", len(titles))
	for i, title := range titles {
		fmt.Fprintf(&b, "\n%d) %s", i+1, title)
	}
	return reply{text: b.String()}, nil
}

// formatAge renders a duration as "<days> days, H:MM:SS". The day count is
// always present, even when zero, so the shape does not change with
// magnitude.
func formatAge(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int(d / time.Hour)
	minutes := int(d/time.Minute) % 60
	seconds := int(d/time.Second) % 60
	return fmt.Sprintf("%d days, %d:%02d:%02d", days, hours, minutes, seconds)
}
