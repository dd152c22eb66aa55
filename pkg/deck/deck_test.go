package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	d := New()
	assert.Equal(t, 52, d.CardsLeft())

	seen := make(map[string]bool)
	for _, card := range d.Cards {
		seen[CardToString(card)] = true
	}
	assert.Equal(t, 52, len(seen))
}

func TestDeck_Shuffle(t *testing.T) {
	a := assert.New(t)

	d1 := New()
	d1.Shuffle(12345)

	d2 := New()
	d2.Shuffle(12345)

	a.Equal(d1.HashCode(), d2.HashCode())
	a.Equal(int64(12345), d1.GetSeed())

	d3 := New()
	d3.Shuffle(12346)
	a.NotEqual(d1.HashCode(), d3.HashCode())

	// still a full, unique deck after shuffling
	seen := make(map[string]bool)
	for _, card := range d1.Cards {
		seen[CardToString(card)] = true
	}
	a.Equal(52, len(seen))

	// shuffling an already-shuffled deck rebuilds it first
	d1.Shuffle(12345)
	a.Equal(d2.HashCode(), d1.HashCode())

	assert.Panics(t, func() {
		New().Shuffle(-1)
	})
}

func TestDeck_Draw(t *testing.T) {
	a := assert.New(t)
	d := New()
	d.Shuffle(1)

	first := d.Cards[0]
	card, err := d.Draw()
	a.NoError(err)
	a.True(first.Equal(card))
	a.Equal(51, d.CardsLeft())

	a.True(d.CanDraw(51))
	a.False(d.CanDraw(52))

	for i := 0; i < 51; i++ {
		_, err := d.Draw()
		a.NoError(err)
	}

	card, err = d.Draw()
	a.Equal(ErrEndOfDeck, err)
	a.Nil(card)
}

func TestSeed(t *testing.T) {
	a := assert.New(t)

	s1 := Seed("table-1", 1, []string{"alice", "bob"})
	s2 := Seed("table-1", 1, []string{"bob", "alice"})
	a.Equal(s1, s2, "player order must not matter")

	a.NotEqual(s1, Seed("table-1", 2, []string{"alice", "bob"}))
	a.NotEqual(s1, Seed("table-2", 1, []string{"alice", "bob"}))
	a.NotEqual(s1, Seed("table-1", 1, []string{"alice", "carol"}))

	a.True(s1 >= 0)
}

func TestLCG(t *testing.T) {
	a := assert.New(t)

	rng := newLCG(42)
	for i := 0; i < 1000; i++ {
		v := rng.next()
		a.True(v >= 0 && v < 1)
	}

	r1 := newLCG(7)
	r2 := newLCG(7)
	for i := 0; i < 100; i++ {
		a.Equal(r1.intn(52), r2.intn(52))
	}
}
