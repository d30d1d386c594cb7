package models

// cardMaskRun replaces the middle of a card number on display paths.
const cardMaskRun = "*********"

// MaskCard keeps the first and last four characters of a card identifier and
// hides everything in between. Applied only at the response boundary; the
// store keeps the identifier exactly as submitted. Masking its own output
// yields the same value.
func MaskCard(card string) string {
	if len(card) < 8 {
		return card
	}
	return card[:4] + cardMaskRun + card[len(card)-4:]
}
