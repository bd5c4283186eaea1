package proc

import (
	"cmp"
	"os"

	"golang.org/x/sync/errgroup"
)

// Collective runs fn once per logical rank, concurrently, and blocks until
// every rank returns. If any rank returns an error, the group is aborted
// (every rank currently waiting inside a collective primitive is released)
// and the first error is returned to the caller — the Go-process
// equivalent of §7's "detect locally, abort the group" propagation policy,
// since there is no separate OS process per rank to kill.
//
// Every §5 "collective" operation (DistributedArray create/destroy, Mask
// modify, Dataset open/wait, FileWriter write, ...) is expected to run
// inside a Collective call.
func (c *Context) Collective(fn func(rank int) error) error {
	var g errgroup.Group
	for r := 0; r < c.NumRanks; r++ {
		rank := r
		g.Go(func() error {
			err := fn(rank)
			if err != nil {
				c.Abort(err)
			}
			return err
		})
	}
	err := g.Wait()
	if err == nil {
		if ae := c.AbortErr(); ae != nil {
			return ae
		}
	}
	return err
}

// Barrier blocks the calling rank until every rank has called Barrier for
// this round.
func (c *Context) Barrier(rank int) {
	c.allreduce(rank, struct{}{}, func(values []any) any { return struct{}{} })
}

// Broadcast returns root's value to every rank (spec §4.8
// broadcast<T>(value, root)).
func Broadcast[T any](c *Context, rank, root int, value T) T {
	result := c.allreduce(rank, value, func(values []any) any {
		return values[root]
	})
	return result.(T)
}

// Allgather concatenates every rank's local slice, in rank order, and
// returns the same combined slice to all ranks (spec §4.8's family of
// collectives extended to variable-length payloads; used by PartialSum's
// small cross-rank exchange and by mask topology propagation).
func Allgather[T any](c *Context, rank int, value []T) []T {
	result := c.allreduce(rank, value, func(values []any) any {
		var all []T
		for _, v := range values {
			all = append(all, v.([]T)...)
		}
		return all
	})
	return result.([]T)
}

// GopSum is the collective sum reduction (spec §4.8 gop_sum<T>), supported
// for pagoda's numeric Go types.
func GopSum[T Numeric](c *Context, rank int, value T) T {
	result := c.allreduce(rank, value, func(values []any) any {
		var sum T
		for _, v := range values {
			sum += v.(T)
		}
		return sum
	})
	return result.(T)
}

// GopMin is the collective minimum reduction (spec §4.8 gop_min<T>).
func GopMin[T cmp.Ordered](c *Context, rank int, value T) T {
	result := c.allreduce(rank, value, func(values []any) any {
		m := values[0].(T)
		for _, v := range values[1:] {
			if v.(T) < m {
				m = v.(T)
			}
		}
		return m
	})
	return result.(T)
}

// GopMax is the collective maximum reduction (spec §4.8 gop_max<T>).
func GopMax[T cmp.Ordered](c *Context, rank int, value T) T {
	result := c.allreduce(rank, value, func(values []any) any {
		m := values[0].(T)
		for _, v := range values[1:] {
			if v.(T) > m {
				m = v.(T)
			}
		}
		return m
	})
	return result.(T)
}

// Numeric is the set of Go types pagoda's gop_* reductions must support
// (spec §4.8: "at minimum {int, long, long long, float, double}").
type Numeric interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// FileExists implements §6's "root-probe + broadcast" file existence
// check: only Rank0 touches the filesystem, and the boolean result is
// broadcast to every rank so all ranks make the same decision without a
// racy independent stat() per rank.
func FileExists(c *Context, rank int, path string) bool {
	var exists bool
	if rank == Rank0 {
		_, err := os.Stat(path)
		exists = err == nil
	}
	return Broadcast(c, rank, Rank0, exists)
}

// PartitionRanks splits NumRanks ranks into n independent groups (spec §6
// --groups), returning rank's group index and the new Context its group
// comembers participate in. Partitioning is file-level: each group works a
// disjoint subset of input files, per the "stable contract" decision
// recorded for the --groups Open Question (spec §9). Groups are contiguous
// blocks of ranks (rank/ranksPerGroup); when NumRanks doesn't divide evenly
// by n, the final group absorbs the remainder.
func (c *Context) PartitionRanks(rank, n int) (groupIdx int, local *Context, ranksPerGroup int) {
	if n < 1 {
		n = 1
	}
	if n > c.NumRanks {
		n = c.NumRanks
	}
	ranksPerGroup = c.NumRanks / n
	if ranksPerGroup < 1 {
		ranksPerGroup = 1
	}
	groupIdx = rank / ranksPerGroup
	if groupIdx >= n {
		groupIdx = n - 1
	}
	size := ranksPerGroup
	if groupIdx == n-1 {
		size = c.NumRanks - ranksPerGroup*(n-1)
	}
	return groupIdx, NewContext(size), ranksPerGroup
}
