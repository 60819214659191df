package scoring

import (
	"encoding/json"
	"fmt"
)

// MultiplierKind enumerates the events that multiply a score.
type MultiplierKind int

const (
	KindGo MultiplierKind = iota
	KindPiBak
	KindGwangBak
	KindMeongBak
	KindGoBak
	KindDokBak
	KindShaking
	KindSsaki
	KindNagari
	KindOneShot
	numMultiplierKinds
)

// String returns the protocol string for a MultiplierKind.
func (k MultiplierKind) String() string {
	switch k {
	case KindGo:
		return "go"
	case KindPiBak:
		return "pi_bak"
	case KindGwangBak:
		return "gwang_bak"
	case KindMeongBak:
		return "meong_bak"
	case KindGoBak:
		return "go_bak"
	case KindDokBak:
		return "dok_bak"
	case KindShaking:
		return "shaking"
	case KindSsaki:
		return "ssaki"
	case KindNagari:
		return "nagari"
	case KindOneShot:
		return "one_shot"
	default:
		return "unknown"
	}
}

// Multiplier is one entry in a score's multiplier log. N carries the count for
// Go, Shaking and Nagari and is zero for the other kinds.
type Multiplier struct {
	Kind MultiplierKind
	N    int
}

func Go(n int) Multiplier      { return Multiplier{Kind: KindGo, N: n} }
func Shaking(n int) Multiplier { return Multiplier{Kind: KindShaking, N: n} }
func Nagari(n int) Multiplier  { return Multiplier{Kind: KindNagari, N: n} }

var (
	PiBak    = Multiplier{Kind: KindPiBak}
	GwangBak = Multiplier{Kind: KindGwangBak}
	MeongBak = Multiplier{Kind: KindMeongBak}
	GoBak    = Multiplier{Kind: KindGoBak}
	DokBak   = Multiplier{Kind: KindDokBak}
	Ssaki    = Multiplier{Kind: KindSsaki}
	OneShot  = Multiplier{Kind: KindOneShot}
)

// Factor is what this entry multiplies the total by.
func (m Multiplier) Factor() int {
	switch m.Kind {
	case KindGo:
		if m.N < 3 {
			return 1
		}
		return 1 << (m.N - 2)
	case KindPiBak, KindGwangBak, KindMeongBak, KindGoBak, KindDokBak, KindSsaki, KindOneShot:
		return 2
	case KindShaking:
		switch m.N {
		case 3:
			return 2
		case 4:
			return 4
		default:
			return 1
		}
	case KindNagari:
		if m.N <= 0 {
			return 1
		}
		return 1 << m.N
	default:
		return 1
	}
}

// String renders entries as "go(3)", "pi_bak", ...
func (m Multiplier) String() string {
	switch m.Kind {
	case KindGo, KindShaking, KindNagari:
		return fmt.Sprintf("%s(%d)", m.Kind, m.N)
	default:
		return m.Kind.String()
	}
}

// MarshalJSON encodes a multiplier as {"kind":"go","n":3}.
func (m Multiplier) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Kind   string `json:"kind"`
		N      int    `json:"n,omitempty"`
		Factor int    `json:"factor"`
	}{m.Kind.String(), m.N, m.Factor()})
}

// UnmarshalJSON decodes the form written by MarshalJSON; factor is derived and ignored.
func (m *Multiplier) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind string `json:"kind"`
		N    int    `json:"n"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := MultiplierKind(0); k < numMultiplierKinds; k++ {
		if k.String() == raw.Kind {
			*m = Multiplier{Kind: k, N: raw.N}
			return nil
		}
	}
	return fmt.Errorf("scoring: unknown multiplier kind %q", raw.Kind)
}

// TotalMultiplier folds the log in order, starting at 1.
func TotalMultiplier(ms []Multiplier) int {
	total := 1
	for _, m := range ms {
		total *= m.Factor()
	}
	return total
}
