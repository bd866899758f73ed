// Package feedback maps touch tiers to the status text shown on the display.
package feedback

import "libdb.so/tapglow/touch"

// Title is the line drawn at the top of every status screen.
const Title = "   *Tappy Rainbow*"

// Screen positions, in pixels.
const (
	TitleY   = 0
	MessageY = 18
)

// Display is the subset of a text display that the presenter draws on.
type Display interface {
	// Clear clears the display buffer.
	Clear()
	// DrawText draws text with its top-left corner at (x, y). Size is the
	// text scale; 1 is the smallest font. Newlines start a new line.
	DrawText(text string, x, y int16, size uint8)
	// Display flushes the buffer to the screen.
	Display() error
}

var messages = [...]string{
	touch.Released:     "Tap for light",
	touch.Tap:          "Tap\n...or keep holding",
	touch.Holding:      "Holding",
	touch.StillHolding: "...Still holding!",
	touch.LongHold:     "Phew!\n\nThat was a long hold!",
}

// Message returns the status message for the tier. Unknown tiers get the
// Released message.
func Message(tier touch.Tier) string {
	if int(tier) >= len(messages) {
		return messages[touch.Released]
	}
	return messages[tier]
}

// Present draws the status screen for the tier and flushes it.
func Present(d Display, tier touch.Tier) error {
	d.Clear()
	d.DrawText(Title, 0, TitleY, 1)
	d.DrawText(Message(tier), 0, MessageY, 1)
	return d.Display()
}

// Splash draws the boot screen. Subtitle is usually the board name.
func Splash(d Display, subtitle string) error {
	d.Clear()
	d.DrawText("Hello!", 0, 10, 2)
	d.DrawText(subtitle, 0, 40, 1)
	return d.Display()
}
