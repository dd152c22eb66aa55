package holdem

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTurnCoordinator_Expires(t *testing.T) {
	a := assert.New(t)

	expired := make(chan TurnScope, 1)
	tc := NewTurnCoordinator(time.Millisecond*20, func(scope TurnScope) {
		expired <- scope
	})

	scope := TurnScope{TableID: "t", HandNumber: 1, ActorIndex: 2}
	tc.Arm(scope)

	select {
	case got := <-expired:
		a.Equal(scope, got)
	case <-time.After(time.Second):
		t.Fatal("timer never expired")
	}
}

func TestTurnCoordinator_Cancel(t *testing.T) {
	expired := make(chan TurnScope, 1)
	tc := NewTurnCoordinator(time.Millisecond*20, func(scope TurnScope) {
		expired <- scope
	})

	tc.Arm(TurnScope{TableID: "t", HandNumber: 1})
	tc.Cancel()

	select {
	case <-expired:
		t.Fatal("cancelled timer still expired")
	case <-time.After(time.Millisecond * 100):
	}
}

func TestTurnCoordinator_RearmReplacesScope(t *testing.T) {
	a := assert.New(t)

	expired := make(chan TurnScope, 2)
	tc := NewTurnCoordinator(time.Millisecond*20, func(scope TurnScope) {
		expired <- scope
	})

	first := TurnScope{TableID: "t", HandNumber: 1, ActorIndex: 0}
	second := TurnScope{TableID: "t", HandNumber: 1, ActorIndex: 1}

	tc.Arm(first)
	tc.Arm(second)

	select {
	case got := <-expired:
		a.Equal(second, got, "only the latest decision should expire")
	case <-time.After(time.Second):
		t.Fatal("timer never expired")
	}

	select {
	case got := <-expired:
		t.Fatalf("stale timer fired for %+v", got)
	case <-time.After(time.Millisecond * 100):
	}
}
