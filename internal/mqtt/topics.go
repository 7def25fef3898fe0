package mqtt

import (
	"fmt"
	"strings"
)

func TopicRestaurantAvailability(prefix string) string {
	return fmt.Sprintf("%s/restaurant/+/availability", prefix)
}

func TopicAvailability(prefix, restaurant string) string {
	return fmt.Sprintf("%s/restaurant/%s/availability", prefix, Slug(restaurant))
}

func TopicTurn(prefix, sessionID string) string {
	return fmt.Sprintf("%s/chat/%s/turn", prefix, sessionID)
}

// Slug makes a restaurant name safe for a single topic level.
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

func Unslug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}
