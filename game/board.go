package game

import (
	"sort"

	"gostop-server/card"
)

// Field is the face-up layout in the middle of the table, grouped by month.
// A group can be marked stuck when a ppuk leaves three cards of one month
// on the field; the owner is the player who caused it.
type Field struct {
	groups map[card.Month][]card.Card
	stuck  map[card.Month]string
}

// NewField creates a field holding the given cards.
func NewField(cards ...card.Card) *Field {
	f := &Field{
		groups: make(map[card.Month][]card.Card),
		stuck:  make(map[card.Month]string),
	}
	f.Add(cards...)
	return f
}

// Add lays cards face up on the field.
func (f *Field) Add(cards ...card.Card) {
	for _, cd := range cards {
		m := cd.Month()
		f.groups[m] = append(f.groups[m], cd)
	}
}

// Group returns a copy of the cards of month m.
func (f *Field) Group(m card.Month) []card.Card {
	return append([]card.Card(nil), f.groups[m]...)
}

// TakeMonth removes and returns every card of month m, clearing any stuck mark.
func (f *Field) TakeMonth(m card.Month) []card.Card {
	cards := f.groups[m]
	delete(f.groups, m)
	delete(f.stuck, m)
	return cards
}

// Remove takes a single card off the field.
func (f *Field) Remove(cd card.Card) bool {
	m := cd.Month()
	for i, c := range f.groups[m] {
		if c == cd {
			f.groups[m] = append(f.groups[m][:i], f.groups[m][i+1:]...)
			if len(f.groups[m]) == 0 {
				delete(f.groups, m)
				delete(f.stuck, m)
			}
			return true
		}
	}
	return false
}

// Contains reports whether cd is on the field.
func (f *Field) Contains(cd card.Card) bool {
	for _, c := range f.groups[cd.Month()] {
		if c == cd {
			return true
		}
	}
	return false
}

// HasMonth reports whether any card of month m is on the field.
func (f *Field) HasMonth(m card.Month) bool {
	return len(f.groups[m]) > 0
}

// MarkStuck records that the group of month m was left by playerID's ppuk.
func (f *Field) MarkStuck(m card.Month, playerID string) {
	f.stuck[m] = playerID
}

// StuckOwner returns the player whose ppuk left month m on the field.
func (f *Field) StuckOwner(m card.Month) (string, bool) {
	id, ok := f.stuck[m]
	return id, ok
}

// Cards returns every field card in catalog order.
func (f *Field) Cards() []card.Card {
	var all []card.Card
	for _, g := range f.groups {
		all = append(all, g...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	return all
}

// Len returns the number of cards on the field.
func (f *Field) Len() int {
	n := 0
	for _, g := range f.groups {
		n += len(g)
	}
	return n
}

// Empty reports whether the field has been swept.
func (f *Field) Empty() bool {
	return f.Len() == 0
}

// Clear removes every card and stuck mark, returning the cards.
func (f *Field) Clear() []card.Card {
	all := f.Cards()
	f.groups = make(map[card.Month][]card.Card)
	f.stuck = make(map[card.Month]string)
	return all
}
