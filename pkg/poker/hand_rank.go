package poker

import (
	"errors"
	"fmt"
	"sort"

	"pokerarena-server/pkg/deck"
)

// ErrNotEnoughCards is an error when fewer than five cards are evaluated
var ErrNotEnoughCards = errors.New("need at least five cards to evaluate a hand")

// HandRank is a comparable hand value. Category decides first; Kickers break
// ties within the same category, element-wise with missing entries treated
// as zero.
type HandRank struct {
	Category Category `json:"category"`
	Kickers  []int    `json:"kickers"`
}

// Compare returns -1, 0, or 1 if h is worse than, equal to, or better than o
func (h HandRank) Compare(o HandRank) int {
	if h.Category != o.Category {
		if h.Category < o.Category {
			return -1
		}

		return 1
	}

	n := len(h.Kickers)
	if len(o.Kickers) > n {
		n = len(o.Kickers)
	}

	for i := 0; i < n; i++ {
		hk, ok := 0, 0
		if i < len(h.Kickers) {
			hk = h.Kickers[i]
		}
		if i < len(o.Kickers) {
			ok = o.Kickers[i]
		}

		if hk != ok {
			if hk < ok {
				return -1
			}

			return 1
		}
	}

	return 0
}

// Beats returns true if h is strictly better than o
func (h HandRank) Beats(o HandRank) bool {
	return h.Compare(o) > 0
}

func (h HandRank) String() string {
	return h.Category.String()
}

// BestHand returns the strongest five-card hand that can be made from the
// hole cards plus the community cards. With more than five cards, every
// five-card subset is evaluated and the maximum kept.
func BestHand(holeCards, communityCards []*deck.Card) (HandRank, error) {
	cards := make([]*deck.Card, 0, len(holeCards)+len(communityCards))
	cards = append(cards, holeCards...)
	cards = append(cards, communityCards...)

	if len(cards) < 5 {
		return HandRank{}, ErrNotEnoughCards
	}

	if len(cards) == 5 {
		return Evaluate(cards), nil
	}

	var best HandRank
	combination := make([]*deck.Card, 5)
	eachCombination(cards, combination, 0, 0, func() {
		if rank := Evaluate(combination); rank.Beats(best) {
			best = rank
		}
	})

	return best, nil
}

// eachCombination calls fn for every len(combination)-sized subset of cards
func eachCombination(cards, combination []*deck.Card, start, depth int, fn func()) {
	if depth == len(combination) {
		fn()
		return
	}

	for i := start; i <= len(cards)-(len(combination)-depth); i++ {
		combination[depth] = cards[i]
		eachCombination(cards, combination, i+1, depth+1, fn)
	}
}

// Evaluate scores exactly five cards
func Evaluate(cards []*deck.Card) HandRank {
	if len(cards) != 5 {
		panic(fmt.Sprintf("evaluate requires exactly five cards, got %d", len(cards)))
	}

	sorted := make([]*deck.Card, 5)
	copy(sorted, cards)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Rank > sorted[j].Rank
	})

	flush := isFlush(sorted)
	straightHigh, straight := straightHighRank(sorted)

	if flush && straight {
		if straightHigh == deck.Ace {
			return HandRank{Category: RoyalFlush, Kickers: []int{deck.Ace}}
		}

		return HandRank{Category: StraightFlush, Kickers: []int{straightHigh}}
	}

	quads, trips, pairs, singles := groupByRank(sorted)

	if len(quads) > 0 {
		return HandRank{Category: FourOfAKind, Kickers: []int{quads[0], singles[0]}}
	}

	if len(trips) > 0 && len(pairs) > 0 {
		return HandRank{Category: FullHouse, Kickers: []int{trips[0], pairs[0]}}
	}

	if flush {
		return HandRank{Category: Flush, Kickers: ranksOf(sorted)}
	}

	if straight {
		return HandRank{Category: Straight, Kickers: []int{straightHigh}}
	}

	if len(trips) > 0 {
		return HandRank{Category: ThreeOfAKind, Kickers: append([]int{trips[0]}, singles...)}
	}

	if len(pairs) >= 2 {
		return HandRank{Category: TwoPair, Kickers: []int{pairs[0], pairs[1], singles[0]}}
	}

	if len(pairs) == 1 {
		return HandRank{Category: OnePair, Kickers: append([]int{pairs[0]}, singles...)}
	}

	return HandRank{Category: HighCard, Kickers: ranksOf(sorted)}
}

func isFlush(cards []*deck.Card) bool {
	suit := cards[0].Suit
	for _, card := range cards[1:] {
		if card.Suit != suit {
			return false
		}
	}

	return true
}

// straightHighRank expects the cards sorted by descending rank. The wheel
// (A-2-3-4-5) counts as a five-high straight.
func straightHighRank(cards []*deck.Card) (int, bool) {
	for i := 0; i < len(cards)-1; i++ {
		if cards[i].Rank != cards[i+1].Rank+1 {
			// the ace may drop below the five to complete the wheel
			if i == 0 && cards[0].Rank == deck.Ace && cards[1].Rank == 5 {
				continue
			}

			return 0, false
		}
	}

	if cards[0].Rank == deck.Ace && cards[1].Rank == 5 {
		return 5, true
	}

	return cards[0].Rank, true
}

// groupByRank expects the cards sorted by descending rank. Each returned
// slice is also in descending rank order.
func groupByRank(cards []*deck.Card) (quads, trips, pairs, singles []int) {
	i := 0
	for i < len(cards) {
		j := i
		for j < len(cards) && cards[j].Rank == cards[i].Rank {
			j++
		}

		switch j - i {
		case 4:
			quads = append(quads, cards[i].Rank)
		case 3:
			trips = append(trips, cards[i].Rank)
		case 2:
			pairs = append(pairs, cards[i].Rank)
		default:
			singles = append(singles, cards[i].Rank)
		}

		i = j
	}

	return
}

func ranksOf(cards []*deck.Card) []int {
	ranks := make([]int, len(cards))
	for i, card := range cards {
		ranks[i] = card.Rank
	}

	return ranks
}
