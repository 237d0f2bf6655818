package collective

import (
	"sync"
	"testing"
)

func Test_AllTrue_AgreesAcrossRanks(t *testing.T) {
	groups := NewSimulatedWorld(4)
	local := []bool{true, true, false, true}
	results := make([]bool, 4)

	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			results[r] = AllTrue(groups[r], local[r])
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != false {
			t.Errorf("rank %d got %v, expected false since rank 2 disagreed", i, r)
		}
	}
}

func Test_AllTrue_AllAgreeTrue(t *testing.T) {
	groups := NewSimulatedWorld(3)
	results := make([]bool, 3)
	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			results[r] = AllTrue(groups[r], true)
		}(i)
	}
	wg.Wait()
	for i, r := range results {
		if !r {
			t.Errorf("rank %d got false, expected true", i)
		}
	}
}

func Test_BroadcastString_LeaderValueWins(t *testing.T) {
	groups := NewSimulatedWorld(3)
	results := make([]string, 3)
	values := []string{"leader-id", "ignored-1", "ignored-2"}

	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			results[r] = BroadcastString(groups[r], 0, values[r])
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != "leader-id" {
			t.Errorf("rank %d got %q, expected %q", i, r, "leader-id")
		}
	}
}

func Test_ReduceSumDouble(t *testing.T) {
	groups := NewSimulatedWorld(4)
	local := []float64{1048576, 1048576, 1048576, 1048576}
	results := make([]float64, 4)

	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			results[r] = ReduceSumDouble(groups[r], local[r])
		}(i)
	}
	wg.Wait()

	want := float64(4 * 1048576)
	for i, r := range results {
		if r != want {
			t.Errorf("rank %d got %v, expected %v", i, r, want)
		}
	}
}

func Test_Group_RankAndSize(t *testing.T) {
	groups := NewSimulatedWorld(5)
	for i, g := range groups {
		if g.Rank() != i {
			t.Errorf("rank got %d, expected %d", g.Rank(), i)
		}
		if g.Size() != 5 {
			t.Errorf("size got %d, expected 5", g.Size())
		}
		if g.IsLeader() != (i == 0) {
			t.Errorf("IsLeader mismatch at rank %d", i)
		}
	}
}

func Test_SequentialCalls_ReuseGeneration(t *testing.T) {
	groups := NewSimulatedWorld(2)
	var wg sync.WaitGroup
	for i := range groups {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			if !AllTrue(groups[r], true) {
				t.Errorf("rank %d: first AllTrue should be true", r)
			}
			if !AllTrue(groups[r], true) {
				t.Errorf("rank %d: second AllTrue should be true", r)
			}
			sum := ReduceSumDouble(groups[r], 1)
			if sum != 2 {
				t.Errorf("rank %d: sum got %v, expected 2", r, sum)
			}
		}(i)
	}
	wg.Wait()
}
