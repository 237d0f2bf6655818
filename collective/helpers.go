package collective

// AllTrue performs a world-wide logical AND of localBool and returns the
// agreed result to every rank (spec.md §4.7). Every rank must call AllTrue
// for the same logical step; the call blocks until all ranks in the group
// have arrived.
func AllTrue(g Group, localBool bool) bool {
	res := g.allreduce(localBool, func(vs []any) any {
		for _, v := range vs {
			if !v.(bool) {
				return false
			}
		}
		return true
	})
	return res.(bool)
}

// BroadcastString distributes root's string value to every rank in the group
// and returns it. Followers pass any string for value; it is ignored. The
// idiomatic two-step (length, then bytes) broadcast a real MPI binding would
// need collapses here since the in-process rendezvous already carries the
// whole value in one step; followers still "allocate" in the sense that they
// receive a freshly returned string rather than aliasing root's memory.
func BroadcastString(g Group, root int, value string) string {
	res := g.allreduce(rootValue{rank: g.rank, root: root, value: value}, func(vs []any) any {
		for _, v := range vs {
			rv := v.(rootValue)
			if rv.rank == rv.root {
				return rv.value
			}
		}
		return ""
	})
	return res.(string)
}

type rootValue struct {
	rank  int
	root  int
	value string
}

// ReduceSumDouble performs a world-wide sum of local and returns the total to
// every rank (spec.md §4.7), used to turn per-rank byte counts into the
// aggregate bytes_transferred reported by EncodePipeline.Apply.
func ReduceSumDouble(g Group, local float64) float64 {
	res := g.allreduce(local, func(vs []any) any {
		var sum float64
		for _, v := range vs {
			sum += v.(float64)
		}
		return sum
	})
	return res.(float64)
}
