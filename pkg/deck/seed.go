package deck

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	lcgModulus    = 1 << 31
)

// lcg is a linear-congruential generator. It is intentionally simple: the
// point is not statistical quality but that every conforming implementation,
// in any language, produces the same permutation from the same seed.
type lcg struct {
	seed int64
}

func newLCG(seed int64) *lcg {
	return &lcg{seed: seed % lcgModulus}
}

// next returns the next value, normalized to [0, 1)
func (l *lcg) next() float64 {
	l.seed = (l.seed*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(l.seed) / float64(lcgModulus)
}

func (l *lcg) intn(n int) int {
	return int(l.next() * float64(n))
}

// Seed derives the shuffle seed for a hand from the table ID, the hand
// number, and the sorted player names. Every player at the table can compute
// the same seed and verify the deal.
func Seed(tableID string, handNumber int64, playerNames []string) int64 {
	names := make([]string, len(playerNames))
	copy(names, playerNames)
	sort.Strings(names)

	h := fnv.New32a()
	_, _ = fmt.Fprintf(h, "%s:%d:%s", tableID, handNumber, strings.Join(names, ","))

	return int64(h.Sum32()) % lcgModulus
}
