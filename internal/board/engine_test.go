package board

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"

	"board-cli/internal/model"
)

func newTestEngine(t *testing.T, b model.Board) *Engine {
	t.Helper()
	m, err := NewModelFrom(b)
	if err != nil {
		t.Fatalf("NewModelFrom: %v", err)
	}
	return NewEngine(m)
}

func boardAB() model.Board {
	return model.Board{
		Containers: []string{"A", "B"},
		Items:      map[string][]string{"A": {"A1", "A2"}, "B": {"B1"}},
	}
}

func below() model.Geometry {
	return model.Geometry{Active: &model.Rect{Top: 30, Height: 20}, Over: &model.Rect{Top: 0, Height: 20}}
}

func above() model.Geometry {
	return model.Geometry{Active: &model.Rect{Top: -10, Height: 20}, Over: &model.Rect{Top: 0, Height: 20}}
}

func mustItems(t *testing.T, e *Engine, c string) []string {
	t.Helper()
	items, err := e.ItemsOf(c)
	if err != nil {
		t.Fatalf("ItemsOf(%s): %v", c, err)
	}
	return items
}

func TestOver_TransfersAcrossContainers(t *testing.T) {
	e := newTestEngine(t, boardAB())
	if err := e.Start("A2"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	changed, err := e.Over("A2", "B1", above())
	if err != nil {
		t.Fatalf("Over: %v", err)
	}
	if !changed {
		t.Fatalf("expected over to transfer the item")
	}
	if got, want := mustItems(t, e, "A"), []string{"A1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("A: expected %v, got %v", want, got)
	}
	if got, want := mustItems(t, e, "B"), []string{"A2", "B1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("B: expected %v, got %v", want, got)
	}
}

func TestOver_BelowInsertsAfterHoveredItem(t *testing.T) {
	e := newTestEngine(t, boardAB())
	_ = e.Start("A1")
	if _, err := e.Over("A1", "B1", below()); err != nil {
		t.Fatalf("Over: %v", err)
	}
	if got, want := mustItems(t, e, "B"), []string{"B1", "A1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("B: expected %v, got %v", want, got)
	}
}

func TestOver_MissingActiveRectCountsAsAbove(t *testing.T) {
	e := newTestEngine(t, boardAB())
	_ = e.Start("A1")
	g := model.Geometry{Over: &model.Rect{Top: 0, Height: 20}}
	if _, err := e.Over("A1", "B1", g); err != nil {
		t.Fatalf("Over: %v", err)
	}
	if got, want := mustItems(t, e, "B"), []string{"A1", "B1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("B: expected %v, got %v", want, got)
	}
}

func TestOver_ContainerTargetAppends(t *testing.T) {
	b := model.Board{
		Containers: []string{"A", "B"},
		Items:      map[string][]string{"A": {"A1"}, "B": {"B1", "B2", "B3"}},
	}
	e := newTestEngine(t, b)
	_ = e.Start("A1")
	if _, err := e.Over("A1", "B", below()); err != nil {
		t.Fatalf("Over: %v", err)
	}
	if got, want := mustItems(t, e, "B"), []string{"B1", "B2", "B3", "A1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("B: expected %v, got %v", want, got)
	}
	if got := mustItems(t, e, "A"); len(got) != 0 {
		t.Fatalf("A: expected empty, got %v", got)
	}
}

func TestOver_NoOps(t *testing.T) {
	tests := []struct {
		name   string
		active string
		over   string
	}{
		{name: "absent over", active: "A1", over: ""},
		{name: "same container item", active: "A1", over: "A2"},
		{name: "own container", active: "A1", over: "A"},
		{name: "over self", active: "A1", over: "A1"},
		{name: "unknown over", active: "A1", over: "nope"},
		{name: "unknown active", active: "ghost", over: "B1"},
		{name: "container drag", active: "A", over: "B"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEngine(t, boardAB())
			before := e.Snapshot()
			if err := e.Start(tc.active); err != nil {
				t.Fatalf("Start: %v", err)
			}
			changed, err := e.Over(tc.active, tc.over, below())
			if err != nil {
				t.Fatalf("Over: %v", err)
			}
			if changed {
				t.Fatalf("expected no change")
			}
			if got := e.Snapshot(); !got.Equal(before) {
				t.Fatalf("board changed: %v", got)
			}
		})
	}
}

func TestOver_RequiresMatchingGesture(t *testing.T) {
	e := newTestEngine(t, boardAB())
	if _, err := e.Over("A1", "B1", below()); !IsProtocolViolation(err) {
		t.Fatalf("expected ProtocolViolation while idle, got %v", err)
	}
	_ = e.Start("A1")
	if _, err := e.Over("A2", "B1", below()); !IsProtocolViolation(err) {
		t.Fatalf("expected ProtocolViolation for mismatched id, got %v", err)
	}
}

func TestEnd_ReordersWithinContainer(t *testing.T) {
	e := newTestEngine(t, boardAB())
	_ = e.Start("A2")
	_, _ = e.Over("A2", "B1", above())

	changed, err := e.End("A2", "B1")
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if !changed {
		t.Fatalf("expected end to reorder within B")
	}
	if got, want := mustItems(t, e, "B"), []string{"B1", "A2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("B: expected %v, got %v", want, got)
	}
	if _, ok := e.Current(); ok {
		t.Fatalf("expected session cleared")
	}
}

func TestEnd_EqualIndicesLeaveBoard(t *testing.T) {
	e := newTestEngine(t, boardAB())
	_ = e.Start("A2")
	_, _ = e.Over("A2", "B1", above())
	before := e.Snapshot()

	changed, err := e.End("A2", "A2")
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if changed {
		t.Fatalf("expected no change for equal indices")
	}
	if got := e.Snapshot(); !got.Equal(before) {
		t.Fatalf("expected %v, got %v", before, got)
	}
}

func TestEnd_IntraContainerMove(t *testing.T) {
	b := model.Board{
		Containers: []string{"A"},
		Items:      map[string][]string{"A": {"A1", "A2", "A3", "A4"}},
	}
	e := newTestEngine(t, b)
	_ = e.Start("A1")
	// Hovering inside the same container never reorders live.
	if changed, _ := e.Over("A1", "A3", below()); changed {
		t.Fatalf("expected over within a container to be deferred")
	}
	if _, err := e.End("A1", "A3"); err != nil {
		t.Fatalf("End: %v", err)
	}
	if got, want := mustItems(t, e, "A"), []string{"A2", "A3", "A1", "A4"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("A: expected %v, got %v", want, got)
	}
}

func TestEnd_DropOnOwnContainerMovesToLast(t *testing.T) {
	b := model.Board{
		Containers: []string{"A"},
		Items:      map[string][]string{"A": {"A1", "A2", "A3"}},
	}
	e := newTestEngine(t, b)
	_ = e.Start("A1")
	if _, err := e.End("A1", "A"); err != nil {
		t.Fatalf("End: %v", err)
	}
	if got, want := mustItems(t, e, "A"), []string{"A2", "A3", "A1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("A: expected %v, got %v", want, got)
	}
}

func TestEnd_DropInOtherContainerWithoutOver(t *testing.T) {
	e := newTestEngine(t, boardAB())
	_ = e.Start("A1")
	if _, err := e.End("A1", "B1"); err != nil {
		t.Fatalf("End: %v", err)
	}
	want := model.Board{
		Containers: []string{"A", "B"},
		Items:      map[string][]string{"A": {"A2"}, "B": {"A1", "B1"}},
	}
	if got := e.Snapshot(); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestEnd_CancelKeepsLiveTransfer(t *testing.T) {
	e := newTestEngine(t, boardAB())
	_ = e.Start("A2")
	_, _ = e.Over("A2", "B1", above())
	after := e.Snapshot()

	changed, err := e.End("A2", "")
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if changed {
		t.Fatalf("expected cancel to leave the board as is")
	}
	if got := e.Snapshot(); !got.Equal(after) {
		t.Fatalf("cancel rolled back: expected %v, got %v", after, got)
	}
	if e.State() != StateIdle {
		t.Fatalf("expected idle, got %v", e.State())
	}
}

func TestEnd_UnknownItemRecovers(t *testing.T) {
	e := newTestEngine(t, boardAB())
	before := e.Snapshot()
	if err := e.Start("ghost"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	changed, err := e.End("ghost", "B1")
	if err != nil || changed {
		t.Fatalf("expected silent no-op, got changed=%v err=%v", changed, err)
	}
	if got := e.Snapshot(); !got.Equal(before) {
		t.Fatalf("board changed: %v", got)
	}
	if e.State() != StateIdle {
		t.Fatalf("expected idle")
	}
}

func TestEnd_TwiceIsNoop(t *testing.T) {
	e := newTestEngine(t, boardAB())
	_ = e.Start("A1")
	if _, err := e.End("A1", ""); err != nil {
		t.Fatalf("first End: %v", err)
	}
	changed, err := e.End("A1", "")
	if err != nil || changed {
		t.Fatalf("expected second End to be a no-op, got changed=%v err=%v", changed, err)
	}
	if changed, err := e.Cancel(); err != nil || changed {
		t.Fatalf("expected Cancel while idle to be a no-op, got changed=%v err=%v", changed, err)
	}
}

func TestEnd_MismatchedIDStillClearsSession(t *testing.T) {
	e := newTestEngine(t, boardAB())
	_ = e.Start("A1")
	if _, err := e.End("B1", "A2"); !IsProtocolViolation(err) {
		t.Fatalf("expected ProtocolViolation, got %v", err)
	}
	if e.State() != StateIdle {
		t.Fatalf("expected session cleared after violation")
	}
}

func TestEnd_ContainerMoveIsSingleMove(t *testing.T) {
	b := model.Board{
		Containers: []string{"A", "B", "C"},
		Items:      map[string][]string{"A": {"A1"}, "B": {}, "C": {"C1"}},
	}
	e := newTestEngine(t, b)
	if err := e.Start("A"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if e.State() != StateDraggingContainer {
		t.Fatalf("expected container drag, got %v", e.State())
	}
	if _, err := e.End("A", "C"); err != nil {
		t.Fatalf("End: %v", err)
	}
	if got, want := e.Containers(), []string{"B", "C", "A"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	// Item lists are untouched by a container move.
	if got, want := mustItems(t, e, "C"), []string{"C1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("C: expected %v, got %v", want, got)
	}
}

func TestEnd_ContainerDroppedOnItemUsesOwner(t *testing.T) {
	b := model.Board{
		Containers: []string{"A", "B", "C"},
		Items:      map[string][]string{"A": {"A1"}, "B": {"B1"}, "C": {"C1"}},
	}
	e := newTestEngine(t, b)
	_ = e.Start("C")
	if _, err := e.End("C", "A1"); err != nil {
		t.Fatalf("End: %v", err)
	}
	if got, want := e.Containers(), []string{"C", "A", "B"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got, want := mustItems(t, e, "A"), []string{"A1"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("A items changed: %v", got)
	}
}

func TestStart_NestedIsViolation(t *testing.T) {
	e := newTestEngine(t, boardAB())
	if err := e.Start("A1"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	err := e.Start("B1")
	var pv ProtocolViolation
	if !errors.As(err, &pv) {
		t.Fatalf("expected ProtocolViolation, got %v", err)
	}
	if id, _ := e.Current(); id.Value != "A1" {
		t.Fatalf("nested start overwrote session: %v", id)
	}
}

func TestOverlay(t *testing.T) {
	e := newTestEngine(t, boardAB())
	if _, ok := e.Overlay(); ok {
		t.Fatalf("expected no overlay while idle")
	}
	_ = e.Start("A")
	ov, ok := e.Overlay()
	if !ok || ov.Kind != model.KindContainer || ov.ID != "A" || !reflect.DeepEqual(ov.Items, []string{"A1", "A2"}) {
		t.Fatalf("unexpected container overlay: %+v ok=%v", ov, ok)
	}
	_, _ = e.Cancel()
	_ = e.Start("B1")
	ov, ok = e.Overlay()
	if !ok || ov.Kind != model.KindItem || ov.ID != "B1" || len(ov.Items) != 0 {
		t.Fatalf("unexpected item overlay: %+v ok=%v", ov, ok)
	}
}

func TestAddContainerAndItem(t *testing.T) {
	e := NewEngine(nil)
	for _, want := range []string{"A", "B"} {
		id, err := e.AddContainer()
		if err != nil {
			t.Fatalf("AddContainer: %v", err)
		}
		if id != want {
			t.Fatalf("expected %s, got %s", want, id)
		}
	}
	if got, want := e.Containers(), []string{"A", "B"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := mustItems(t, e, "A"); len(got) != 0 {
		t.Fatalf("expected empty A, got %v", got)
	}

	for _, want := range []string{"A1", "A2"} {
		id, err := e.AddItem("A")
		if err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		if id != want {
			t.Fatalf("expected %s, got %s", want, id)
		}
	}
	if got, want := mustItems(t, e, "A"), []string{"A1", "A2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := e.AddItem("Q"); !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestAddItem_SkipsIDsUsedElsewhere(t *testing.T) {
	b := model.Board{
		Containers: []string{"A", "B"},
		Items:      map[string][]string{"A": {"B2"}, "B": {"B1"}},
	}
	e := newTestEngine(t, b)
	id, err := e.AddItem("B")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if id != "B3" {
		t.Fatalf("expected B3 (B2 lives in A), got %s", id)
	}
}

func TestObserverSeesEachTransitionOnce(t *testing.T) {
	var ops []string
	var lastAddBoard model.Board
	e := NewEngine(nil, WithObserver(func(c Change) {
		ops = append(ops, c.Op)
		if c.Op == "add-container" {
			lastAddBoard = c.Board
		}
	}))
	if _, err := e.AddContainer(); err != nil {
		t.Fatalf("AddContainer: %v", err)
	}
	if err := lastAddBoard.Validate(); err != nil {
		t.Fatalf("observer saw an intermediate board: %v", err)
	}
	if _, ok := lastAddBoard.Items["A"]; !ok || len(lastAddBoard.Containers) != 1 {
		t.Fatalf("observer board missing new container: %+v", lastAddBoard)
	}
	_, _ = e.AddItem("A")
	_ = e.Start("A1")
	_, _ = e.End("A1", "")
	if got, want := ops, []string{"add-container", "add-item", "start", "end"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRoundTripRestoresBoard(t *testing.T) {
	orig := boardAB()
	e := newTestEngine(t, orig)

	_ = e.Start("A2")
	if _, err := e.Over("A2", "B1", above()); err != nil {
		t.Fatalf("Over to B: %v", err)
	}
	// Back into A, below A1 => original index 1.
	if _, err := e.Over("A2", "A1", below()); err != nil {
		t.Fatalf("Over back to A: %v", err)
	}
	if _, err := e.End("A2", "A2"); err != nil {
		t.Fatalf("End: %v", err)
	}
	if got := e.Snapshot(); !got.Equal(orig) {
		t.Fatalf("round trip: expected %v, got %v", orig, got)
	}
}

func TestRandomGesturesKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := NewEngine(nil)
	for i := 0; i < 4; i++ {
		c, err := e.AddContainer()
		if err != nil {
			t.Fatalf("AddContainer: %v", err)
		}
		for j := 0; j < 3; j++ {
			if _, err := e.AddItem(c); err != nil {
				t.Fatalf("AddItem: %v", err)
			}
		}
	}

	allIDs := func() []string {
		b := e.Snapshot()
		ids := append([]string{}, b.Containers...)
		for _, c := range b.Containers {
			ids = append(ids, b.Items[c]...)
		}
		return append(ids, "ghost")
	}
	pick := func() string {
		ids := allIDs()
		return ids[rng.Intn(len(ids))]
	}
	countItems := func(b model.Board) int {
		n := 0
		for _, xs := range b.Items {
			n += len(xs)
		}
		return n
	}
	total := countItems(e.Snapshot())

	for step := 0; step < 500; step++ {
		active := pick()
		if err := e.Start(active); err != nil {
			t.Fatalf("step %d Start: %v", step, err)
		}
		for k := rng.Intn(5); k > 0; k-- {
			g := model.Geometry{
				Active: &model.Rect{Top: rng.Float64() * 40, Height: 20},
				Over:   &model.Rect{Top: 10, Height: 20},
			}
			if _, err := e.Over(active, pick(), g); err != nil {
				t.Fatalf("step %d Over: %v", step, err)
			}
			assertConsistent(t, e)
		}
		over := ""
		if rng.Intn(4) > 0 {
			over = pick()
		}
		if _, err := e.End(active, over); err != nil {
			t.Fatalf("step %d End: %v", step, err)
		}
		assertConsistent(t, e)
		if got := countItems(e.Snapshot()); got != total {
			t.Fatalf("step %d: item count changed from %d to %d", step, total, got)
		}
	}
}

func assertConsistent(t *testing.T, e *Engine) {
	t.Helper()
	b := e.Snapshot()
	if err := b.Validate(); err != nil {
		t.Fatalf("invariant broken: %v\n%s", err, b.Text())
	}
	loc := e.Model().Locator()
	for _, c := range b.Containers {
		for _, it := range b.Items[c] {
			want, _ := ResolveContainer(it, b)
			if got, ok := loc.Resolve(it); !ok || got != want {
				t.Fatalf("locator disagrees for %s: index=%q scan=%q", it, got, want)
			}
		}
	}
}
