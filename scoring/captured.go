package scoring

import "gostop-server/card"

// Captured holds a player's captured cards in four disjoint piles.
// Piles only grow during a round; Clear empties them at a round boundary.
type Captured struct {
	Gwang []card.Card `json:"gwang"`
	Yeol  []card.Card `json:"yeol"`
	Meong []card.Card `json:"meong"`
	Pi    []card.Card `json:"pi"`
}

// Add routes each card into the pile for its category.
func (c *Captured) Add(cards ...card.Card) {
	for _, cd := range cards {
		switch cd.Bucket() {
		case card.GwangBucket:
			c.Gwang = append(c.Gwang, cd)
		case card.YeolBucket:
			c.Yeol = append(c.Yeol, cd)
		case card.MeongBucket:
			c.Meong = append(c.Meong, cd)
		case card.PiBucket:
			c.Pi = append(c.Pi, cd)
		}
	}
}

// Remove takes the given cards back out of their piles. It returns false and leaves
// the piles unchanged if any card is missing.
func (c *Captured) Remove(cards ...card.Card) bool {
	for _, cd := range cards {
		if !c.Contains(cd) {
			return false
		}
	}
	for _, cd := range cards {
		pile := c.pile(cd.Bucket())
		*pile = without(*pile, cd)
	}
	return true
}

// TakePi removes up to value points of pi, single pi first, and returns the cards
// removed. A double pi is handed over only when no single pi is left.
func (c *Captured) TakePi(value int) []card.Card {
	var taken []card.Card
	for value > 0 {
		idx := -1
		for i, cd := range c.Pi {
			if cd.PiValue() == 1 {
				idx = i
				break
			}
		}
		if idx < 0 {
			for i, cd := range c.Pi {
				if cd.PiValue() > 0 {
					idx = i
					break
				}
			}
		}
		if idx < 0 {
			break
		}
		cd := c.Pi[idx]
		c.Pi = append(c.Pi[:idx:idx], c.Pi[idx+1:]...)
		taken = append(taken, cd)
		value -= cd.PiValue()
	}
	return taken
}

// Contains reports whether cd is in any pile.
func (c *Captured) Contains(cd card.Card) bool {
	for _, x := range *c.pile(cd.Bucket()) {
		if x == cd {
			return true
		}
	}
	return false
}

// PiCount counts the pi pile with double pi counted as two.
func (c *Captured) PiCount() int {
	n := 0
	for _, cd := range c.Pi {
		n += cd.PiValue()
	}
	return n
}

// All returns every captured card, gwang pile first.
func (c *Captured) All() []card.Card {
	all := make([]card.Card, 0, c.Len())
	all = append(all, c.Gwang...)
	all = append(all, c.Yeol...)
	all = append(all, c.Meong...)
	all = append(all, c.Pi...)
	return all
}

// Len is the number of captured cards.
func (c *Captured) Len() int {
	return len(c.Gwang) + len(c.Yeol) + len(c.Meong) + len(c.Pi)
}

// Clear empties all piles.
func (c *Captured) Clear() {
	c.Gwang, c.Yeol, c.Meong, c.Pi = nil, nil, nil, nil
}

func (c *Captured) hasAll(set [3]card.Card) bool {
	for _, want := range set {
		if !c.Contains(want) {
			return false
		}
	}
	return true
}

// HasHongdan reports whether all three red-poem ribbons (months 1, 2, 3) were captured.
func (c *Captured) HasHongdan() bool { return c.hasAll(card.Hongdan) }

// HasCheongdan reports whether all three blue ribbons (months 6, 9, 10) were captured.
func (c *Captured) HasCheongdan() bool { return c.hasAll(card.Cheongdan) }

// HasChodan reports whether all three grass ribbons (months 4, 5, 7) were captured.
func (c *Captured) HasChodan() bool { return c.hasAll(card.Chodan) }

// HasGodori reports whether the three birds (months 2, 4, 8) were captured.
func (c *Captured) HasGodori() bool { return c.hasAll(card.Godori) }

func (c *Captured) pile(b card.Bucket) *[]card.Card {
	switch b {
	case card.GwangBucket:
		return &c.Gwang
	case card.YeolBucket:
		return &c.Yeol
	case card.MeongBucket:
		return &c.Meong
	default:
		return &c.Pi
	}
}

func without(cards []card.Card, cd card.Card) []card.Card {
	for i, x := range cards {
		if x == cd {
			return append(cards[:i:i], cards[i+1:]...)
		}
	}
	return cards
}
