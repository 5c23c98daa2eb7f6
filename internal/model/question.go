package model

// OptionSlots is the number of option buttons on the quiz screen.
const OptionSlots = 4

// fallbackOptionLabels fill option slots a question does not provide.
var fallbackOptionLabels = [OptionSlots]string{"Option A", "Option B", "Option C", "Option D"}

// Question is a prompt with ordered option texts and the text of the correct one.
// Correct is matched against the selected option by string equality.
// Missing fields decode as empty, the same as the store's own readers.
type Question struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  string   `json:"correct"`
}

// OptionSlot describes one rendered option button.
type OptionSlot struct {
	Label string `json:"label"`
	// Selectable is false for slots rendered with a fallback label.
	Selectable bool `json:"selectable"`
}

// Slots renders the question's options into the fixed button slots.
func (q Question) Slots() [OptionSlots]OptionSlot {
	var slots [OptionSlots]OptionSlot
	for i := range slots {
		if i < len(q.Options) {
			slots[i] = OptionSlot{Label: q.Options[i], Selectable: true}
		} else {
			slots[i] = OptionSlot{Label: fallbackOptionLabels[i]}
		}
	}
	return slots
}
