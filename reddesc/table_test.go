package reddesc

import (
	"context"
	"testing"

	"github.com/sharedcode/scrred/kvtree"
)

func Test_BuildTable_AscendingKeyOrder(t *testing.T) {
	contexts := newTestJobContexts(t, 1, 1)
	jc := contexts[0]

	root := kvtree.New()
	intervals := map[string]string{"checkpoint_a": "1", "checkpoint_b": "2", "checkpoint_c": "3"}
	for _, name := range []string{"checkpoint_c", "checkpoint_a", "checkpoint_b"} {
		child := kvtree.New()
		child.Set("TYPE", "SINGLE")
		child.Set("INTERVAL", intervals[name])
		root.SetChild(name, child)
	}

	table, err := BuildTable(context.Background(), jc, root)
	if err != nil {
		t.Fatalf("BuildTable: %v", err)
	}
	descs := table.Descriptors()
	if len(descs) != 3 {
		t.Fatalf("got %d descriptors, expected 3", len(descs))
	}
	for i, d := range descs {
		if d.Index != i {
			t.Errorf("descriptor %d: got index %d, expected %d", i, d.Index, i)
		}
		if d.Interval != i+1 {
			t.Errorf("descriptor %d: got interval %d, expected %d (ascending key order)", i, d.Interval, i+1)
		}
	}
}

func Test_BuildTable_DeterministicAcrossRebuilds(t *testing.T) {
	contexts := newTestJobContexts(t, 1, 1)
	jc := contexts[0]

	root := kvtree.New()
	root.SetChild("a", kvtree.New())
	root.SetChild("b", kvtree.New())

	t1, err := BuildTable(context.Background(), jc, root)
	if err != nil {
		t.Fatalf("BuildTable (1st): %v", err)
	}
	t2, err := BuildTable(context.Background(), jc, root)
	if err != nil {
		t.Fatalf("BuildTable (2nd): %v", err)
	}
	d1 := t1.Descriptors()
	d2 := t2.Descriptors()
	if len(d1) != len(d2) {
		t.Fatalf("descriptor count mismatch: %d vs %d", len(d1), len(d2))
	}
	for i := range d1 {
		if d1[i].Index != d2[i].Index || d1[i].CopyType != d2[i].CopyType {
			t.Errorf("descriptor %d diverges across rebuilds", i)
		}
	}
}

func Test_Select_MaxIntervalWins(t *testing.T) {
	table := &RedDescTable{descs: []RedDesc{
		{Enabled: true, Interval: 1, Index: 0},
		{Enabled: true, Interval: 7, Index: 1},
		{Enabled: true, Interval: 2, Index: 2},
	}}
	d, ok := table.Select(7)
	if !ok {
		t.Fatalf("expected a selection")
	}
	if d.Index != 1 {
		t.Errorf("got index %d, expected 1 (interval 7 divides and is largest)", d.Index)
	}
}

func Test_Select_TieBreaksToFirst(t *testing.T) {
	table := &RedDescTable{descs: []RedDesc{
		{Enabled: true, Interval: 2, Index: 0},
		{Enabled: true, Interval: 2, Index: 1},
	}}
	d, ok := table.Select(4)
	if !ok {
		t.Fatalf("expected a selection")
	}
	if d.Index != 0 {
		t.Errorf("got index %d, expected 0 (first-found wins tie)", d.Index)
	}
}

func Test_Select_DisabledNeverSelected(t *testing.T) {
	table := &RedDescTable{descs: []RedDesc{
		{Enabled: false, Interval: 1, Index: 0},
	}}
	if _, ok := table.Select(5); ok {
		t.Errorf("expected no selection among disabled descriptors")
	}
}

func Test_Select_NoneQualifies(t *testing.T) {
	table := &RedDescTable{descs: []RedDesc{
		{Enabled: true, Interval: 4, Index: 0},
	}}
	if _, ok := table.Select(7); ok {
		t.Errorf("expected no selection when no interval divides id")
	}
}
