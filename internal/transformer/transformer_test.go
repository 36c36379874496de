package transformer

import (
	"reflect"
	"testing"

	"github.com/iNicoNavarro/data-problems/pkg/records"
)

type addFieldTransformer struct {
	key string
	val any
}

func (t addFieldTransformer) Apply(in []records.Record) []records.Record {
	for i := range in {
		in[i][t.key] = t.val
	}
	return in
}

type dropMissing struct{ key string }

func (t dropMissing) Apply(in []records.Record) []records.Record {
	out := in[:0]
	for _, r := range in {
		if v, ok := r[t.key]; ok && v != nil {
			out = append(out, r)
		}
	}
	return out
}

type counterTransformer struct {
	calls *int
	order *[]int
	id    int
}

func (t counterTransformer) Apply(in []records.Record) []records.Record {
	*t.calls++
	*t.order = append(*t.order, t.id)
	return in
}

func TestChainApply_Order(t *testing.T) {
	t.Parallel()

	var calls int
	var order []int
	c := Chain{
		counterTransformer{&calls, &order, 1},
		counterTransformer{&calls, &order, 2},
		counterTransformer{&calls, &order, 3},
	}
	c.Apply([]records.Record{{}})

	if calls != 3 || !reflect.DeepEqual(order, []int{1, 2, 3}) {
		t.Fatalf("calls=%d order=%v", calls, order)
	}
}

func TestChainApply_FilterThenMutate(t *testing.T) {
	t.Parallel()

	in := []records.Record{
		{"central": "GUAVIO"},
		{"central": nil},
		{"other": "x"},
	}
	got := Chain{dropMissing{"central"}, addFieldTransformer{"seen", true}}.Apply(in)

	want := []records.Record{{"central": "GUAVIO", "seen": true}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v, want %#v", got, want)
	}
}

func TestChainApply_NilAndEmptyChain(t *testing.T) {
	t.Parallel()

	in := []records.Record{{"a": 1}}
	if got := Chain(nil).Apply(in); !reflect.DeepEqual(got, in) {
		t.Fatalf("nil chain changed input: %#v", got)
	}
	if got := (Chain{addFieldTransformer{"a", 2}}).Apply(nil); got != nil {
		t.Fatalf("nil input = %#v, want nil", got)
	}
}
