// Package welcome builds the chat welcome screen: a heading plus clickable
// suggestion chips that submit their text as the first chat message.
package welcome

import (
	"errors"
	"slices"
)

// ErrUnknownSuggestion is returned when a click names a chip that is not
// shown on the current screen.
var ErrUnknownSuggestion = errors.New("suggestion is not on the welcome screen")

// Message is what a chip click submits.
type Message struct {
	Text string `json:"text"`
}

// SuggestionHandler receives the message for a clicked chip.
type SuggestionHandler func(Message)

var productSuggestions = []string{
	"Show me Uganda Premier League jerseys",
	"KCCA FC home kit",
	"Vipers SC away jersey",
	"Football scarves and caps",
	"Match-day merchandise under UGX 100,000",
}

var orderSuggestions = []string{
	"Where is my jersey order?",
	"Show my recent merchandise orders",
	"Has my delivery been shipped?",
}

const (
	Heading = "How can I help you today?"

	signedInSubheading  = "I can help you find Uganda league football merchandise, check your orders, and track deliveries."
	signedOutSubheading = "I can help you find Uganda league football merchandise — jerseys, kits, scarves, and more. Just ask!"
)

// ProductSuggestions returns the "Find merchandise" chips.
func ProductSuggestions() []string { return slices.Clone(productSuggestions) }

// OrderSuggestions returns the "Your orders" chips.
func OrderSuggestions() []string { return slices.Clone(orderSuggestions) }

// Section is one group of chips.
type Section struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Icon        string   `json:"icon"`
	Suggestions []string `json:"suggestions"`
}

// View is the rendered welcome screen.
type View struct {
	Heading    string    `json:"heading"`
	Subheading string    `json:"subheading"`
	Sections   []Section `json:"sections"`
}

// Screen renders suggestions and routes chip clicks to its handler.
type Screen struct {
	onSuggestionClick SuggestionHandler
	isSignedIn        bool
}

func New(onSuggestionClick SuggestionHandler, isSignedIn bool) *Screen {
	return &Screen{onSuggestionClick: onSuggestionClick, isSignedIn: isSignedIn}
}

// View renders the screen. The orders section only exists for signed-in users.
func (s *Screen) View() View {
	v := View{
		Heading:    Heading,
		Subheading: signedOutSubheading,
		Sections: []Section{{
			ID:          "products",
			Title:       "Find merchandise",
			Icon:        "search",
			Suggestions: ProductSuggestions(),
		}},
	}
	if s.isSignedIn {
		v.Subheading = signedInSubheading
		v.Sections = append(v.Sections, Section{
			ID:          "orders",
			Title:       "Your orders",
			Icon:        "package",
			Suggestions: OrderSuggestions(),
		})
	}
	return v
}

// Click submits the chip text unchanged to the handler.
func (s *Screen) Click(text string) error {
	if !s.visible(text) {
		return ErrUnknownSuggestion
	}
	if s.onSuggestionClick != nil {
		s.onSuggestionClick(Message{Text: text})
	}
	return nil
}

func (s *Screen) visible(text string) bool {
	if slices.Contains(productSuggestions, text) {
		return true
	}
	return s.isSignedIn && slices.Contains(orderSuggestions, text)
}
