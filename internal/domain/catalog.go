package domain

import "fmt"

// majorArcana is the fixed deck. It is never handed out directly.
var majorArcana = [...]Card{
	{ID: 0, Name: "The Fool", Image: "/cards/0_fool.jpg"},
	{ID: 1, Name: "The Magician", Image: "/cards/1_magician.jpg"},
	{ID: 2, Name: "The High Priestess", Image: "/cards/2_high_priestess.jpg"},
	{ID: 3, Name: "The Empress", Image: "/cards/3_empress.jpg"},
	{ID: 4, Name: "The Emperor", Image: "/cards/4_emperor.jpg"},
	{ID: 5, Name: "The Hierophant", Image: "/cards/5_hierophant.jpg"},
	{ID: 6, Name: "The Lovers", Image: "/cards/6_lovers.jpg"},
	{ID: 7, Name: "The Chariot", Image: "/cards/7_chariot.jpg"},
	{ID: 8, Name: "Strength", Image: "/cards/8_strength.jpg"},
	{ID: 9, Name: "The Hermit", Image: "/cards/9_hermit.jpg"},
	{ID: 10, Name: "Wheel of Fortune", Image: "/cards/10_wheel_of_fortune.jpg"},
	{ID: 11, Name: "Justice", Image: "/cards/11_justice.jpg"},
	{ID: 12, Name: "The Hanged Man", Image: "/cards/12_hanged_man.jpg"},
	{ID: 13, Name: "Death", Image: "/cards/13_death.jpg"},
	{ID: 14, Name: "Temperance", Image: "/cards/14_temperance.jpg"},
	{ID: 15, Name: "The Devil", Image: "/cards/15_devil.jpg"},
	{ID: 16, Name: "The Tower", Image: "/cards/16_tower.jpg"},
	{ID: 17, Name: "The Star", Image: "/cards/17_star.jpg"},
	{ID: 18, Name: "The Moon", Image: "/cards/18_moon.jpg"},
	{ID: 19, Name: "The Sun", Image: "/cards/19_sun.jpg"},
	{ID: 20, Name: "Judgement", Image: "/cards/20_judgement.jpg"},
	{ID: 21, Name: "The World", Image: "/cards/21_world.jpg"},
}

// CatalogSize is the number of cards in the major arcana.
const CatalogSize = len(majorArcana)

// Catalog returns a copy of the 22 major arcana in id order.
func Catalog() []Card {
	out := make([]Card, CatalogSize)
	copy(out, majorArcana[:])
	return out
}

// CardByName looks up a catalog card by its display name.
func CardByName(name string) (Card, bool) {
	for _, c := range majorArcana {
		if c.Name == name {
			return c, true
		}
	}
	return Card{}, false
}

// ValidateCatalog checks that cards form a complete major arcana:
// 22 entries, ids 0..21 in order, unique names.
func ValidateCatalog(cards []Card) error {
	if len(cards) != CatalogSize {
		return fmt.Errorf("catalog has %d cards, want %d", len(cards), CatalogSize)
	}
	names := make(map[string]struct{}, len(cards))
	for i, c := range cards {
		if c.ID != i {
			return fmt.Errorf("card %q at position %d has id %d", c.Name, i, c.ID)
		}
		if _, dup := names[c.Name]; dup {
			return fmt.Errorf("duplicate card name %q", c.Name)
		}
		names[c.Name] = struct{}{}
	}
	return nil
}
