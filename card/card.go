package card

import "fmt"

// Card is one of the 50 hwatu card identities: 48 month cards and 2 bonus cards.
// Cards are values; they move between containers but are never mutated.
type Card int

const (
	// January: pine
	SonghakPine Card = iota
	SonghakPine2
	SonghakCrane
	SonghakHongdan

	// February: plum blossom
	MaejouPlum
	MaejouPlum2
	MaejouWhistlingBird
	MaejouHongdan

	// March: cherry blossom
	SakuraCherry
	SakuraCherry2
	SakuraCurtain
	SakuraHongdan

	// April: wisteria
	DeungnamuWisteria
	DeungnamuWisteria2
	DeungnamuCuckoo
	DeungnamuChodan

	// May: iris
	Iris
	Iris2
	IrisYatsuhashi
	IrisChodan

	// June: peony
	Peony
	Peony2
	PeonyButterfly
	PeonyCheongdan

	// July: bush clover
	SariBushClover
	SariBushClover2
	SariBoar
	SariChodan

	// August: pampas grass
	EoksaePampas
	EoksaePampas2
	EoksaeGoose
	EoksaeMoon

	// September: chrysanthemum
	Chrysanthemum
	Chrysanthemum2
	ChrysanthemumSakazuki
	ChrysanthemumCheongdan

	// October: maple
	Maple
	Maple2
	MapleDeer
	MapleCheongdan

	// November: paulownia
	Paulownia
	Paulownia2
	PaulowniaDoublePi
	PaulowniaPhoenix

	// December: willow (rain)
	WillowDoublePi
	WillowRibbon
	WillowSwallow
	WillowRainman

	Bonus1
	Bonus2

	numCards
)

// Count is the size of the catalog.
const Count = int(numCards)

// Month is the suit of a card, 1 through 12. Bonus cards have month Bonus.
type Month int

// Bonus is the month of the two bonus cards.
const Bonus Month = 0

// Category is the game-semantic class of a card.
type Category int

const (
	Bright Category = iota
	RibbonPlain
	RibbonHongdan
	RibbonCheongdan
	RibbonChodan
	AnimalPlain
	AnimalSpecial
	// Plain is reserved for variant decks; the standard catalog assigns no card to it.
	Plain
	Pi
	DoublePi
)

// String returns the protocol string for a Category.
func (c Category) String() string {
	switch c {
	case Bright:
		return "bright"
	case RibbonPlain:
		return "ribbon"
	case RibbonHongdan:
		return "ribbon_hongdan"
	case RibbonCheongdan:
		return "ribbon_cheongdan"
	case RibbonChodan:
		return "ribbon_chodan"
	case AnimalPlain:
		return "animal"
	case AnimalSpecial:
		return "animal_godori"
	case Plain:
		return "plain"
	case Pi:
		return "pi"
	case DoublePi:
		return "double_pi"
	default:
		return "unknown"
	}
}

// Bucket is the captured-card pile a card lands in.
type Bucket int

const (
	GwangBucket Bucket = iota
	YeolBucket
	MeongBucket
	PiBucket
)

type entry struct {
	name     string
	month    Month
	category Category
}

// catalog is indexed by Card. A card missing from this table has an empty name,
// which TestCatalogIsExhaustive reports.
var catalog = [numCards]entry{
	SonghakPine:    {"songhak_pine", 1, Pi},
	SonghakPine2:   {"songhak_pine_2", 1, Pi},
	SonghakCrane:   {"songhak_crane", 1, Bright},
	SonghakHongdan: {"songhak_hongdan", 1, RibbonHongdan},

	MaejouPlum:          {"maejou_plum", 2, Pi},
	MaejouPlum2:         {"maejou_plum_2", 2, Pi},
	MaejouWhistlingBird: {"maejou_whistling_bird", 2, AnimalSpecial},
	MaejouHongdan:       {"maejou_hongdan", 2, RibbonHongdan},

	SakuraCherry:  {"sakura_cherry", 3, Pi},
	SakuraCherry2: {"sakura_cherry_2", 3, Pi},
	SakuraCurtain: {"sakura_curtain", 3, Bright},
	SakuraHongdan: {"sakura_hongdan", 3, RibbonHongdan},

	DeungnamuWisteria:  {"deungnamu_wisteria", 4, Pi},
	DeungnamuWisteria2: {"deungnamu_wisteria_2", 4, Pi},
	DeungnamuCuckoo:    {"deungnamu_cuckoo", 4, AnimalSpecial},
	DeungnamuChodan:    {"deungnamu_chodan", 4, RibbonChodan},

	Iris:           {"iris", 5, Pi},
	Iris2:          {"iris_2", 5, Pi},
	IrisYatsuhashi: {"iris_yatsuhashi", 5, AnimalPlain},
	IrisChodan:     {"iris_chodan", 5, RibbonChodan},

	Peony:          {"peony", 6, Pi},
	Peony2:         {"peony_2", 6, Pi},
	PeonyButterfly: {"peony_butterfly", 6, AnimalPlain},
	PeonyCheongdan: {"peony_cheongdan", 6, RibbonCheongdan},

	SariBushClover:  {"sari_bush_clover", 7, Pi},
	SariBushClover2: {"sari_bush_clover_2", 7, Pi},
	SariBoar:        {"sari_boar", 7, AnimalPlain},
	SariChodan:      {"sari_chodan", 7, RibbonChodan},

	EoksaePampas:  {"eoksae_pampas", 8, Pi},
	EoksaePampas2: {"eoksae_pampas_2", 8, Pi},
	EoksaeGoose:   {"eoksae_goose", 8, AnimalSpecial},
	EoksaeMoon:    {"eoksae_moon", 8, Bright},

	Chrysanthemum:          {"chrysanthemum", 9, Pi},
	Chrysanthemum2:         {"chrysanthemum_2", 9, Pi},
	ChrysanthemumSakazuki:  {"chrysanthemum_sakazuki", 9, AnimalPlain},
	ChrysanthemumCheongdan: {"chrysanthemum_cheongdan", 9, RibbonCheongdan},

	Maple:          {"maple", 10, Pi},
	Maple2:         {"maple_2", 10, Pi},
	MapleDeer:      {"maple_deer", 10, AnimalPlain},
	MapleCheongdan: {"maple_cheongdan", 10, RibbonCheongdan},

	Paulownia:         {"paulownia", 11, Pi},
	Paulownia2:        {"paulownia_2", 11, Pi},
	PaulowniaDoublePi: {"paulownia_double_pi", 11, DoublePi},
	PaulowniaPhoenix:  {"paulownia_phoenix", 11, Bright},

	WillowDoublePi: {"willow_double_pi", 12, DoublePi},
	WillowRibbon:   {"willow_ribbon", 12, RibbonPlain},
	WillowSwallow:  {"willow_swallow", 12, AnimalPlain},
	WillowRainman:  {"willow_rainman", 12, Bright},

	Bonus1: {"bonus_1", Bonus, DoublePi},
	Bonus2: {"bonus_2", Bonus, DoublePi},
}

var byName = func() map[string]Card {
	m := make(map[string]Card, Count)
	for c := Card(0); c < numCards; c++ {
		m[catalog[c].name] = c
	}
	return m
}()

// Valid reports whether c is a member of the catalog.
func (c Card) Valid() bool {
	return c >= 0 && c < numCards
}

// String returns the protocol name of the card.
func (c Card) String() string {
	if !c.Valid() {
		return fmt.Sprintf("card(%d)", int(c))
	}
	return catalog[c].name
}

// Month returns the card's month, or Bonus.
func (c Card) Month() Month {
	return catalog[c].month
}

// Category returns the card's category.
func (c Card) Category() Category {
	return catalog[c].category
}

func (c Card) IsBonus() bool {
	return c == Bonus1 || c == Bonus2
}

func (c Card) IsDoublePi() bool {
	return catalog[c].category == DoublePi
}

func (c Card) IsBright() bool {
	return catalog[c].category == Bright
}

// IsRain reports whether c is the December bright, which some rule sets discount
// when it is one of exactly three brights.
func (c Card) IsRain() bool {
	return c == WillowRainman
}

// PiValue is the card's contribution to a pi count.
func (c Card) PiValue() int {
	switch catalog[c].category {
	case Pi, Plain:
		return 1
	case DoublePi:
		return 2
	default:
		return 0
	}
}

// Bucket returns the captured pile the card belongs to.
func (c Card) Bucket() Bucket {
	switch catalog[c].category {
	case Bright:
		return GwangBucket
	case RibbonPlain, RibbonHongdan, RibbonCheongdan, RibbonChodan:
		return YeolBucket
	case AnimalPlain, AnimalSpecial:
		return MeongBucket
	case Plain, Pi, DoublePi:
		return PiBucket
	default:
		panic(fmt.Sprintf("card: %s has no bucket", c))
	}
}

// MarshalText encodes the card as its protocol name.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("card: invalid card %d", int(c))
	}
	return []byte(catalog[c].name), nil
}

// UnmarshalText decodes a protocol name.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse returns the card with the given protocol name.
func Parse(name string) (Card, error) {
	c, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("card: unknown card %q", name)
	}
	return c, nil
}

// All returns the full catalog in enumeration order.
func All() []Card {
	cards := make([]Card, Count)
	for i := range cards {
		cards[i] = Card(i)
	}
	return cards
}

// OfMonth returns the four cards of month m in enumeration order.
func OfMonth(m Month) []Card {
	var cards []Card
	for c := Card(0); c < numCards; c++ {
		if catalog[c].month == m {
			cards = append(cards, c)
		}
	}
	return cards
}

// Ribbon and animal sets that score as combinations.
var (
	Hongdan   = [3]Card{SonghakHongdan, MaejouHongdan, SakuraHongdan}
	Cheongdan = [3]Card{PeonyCheongdan, ChrysanthemumCheongdan, MapleCheongdan}
	Chodan    = [3]Card{DeungnamuChodan, IrisChodan, SariChodan}
	Godori    = [3]Card{MaejouWhistlingBird, DeungnamuCuckoo, EoksaeGoose}
)
