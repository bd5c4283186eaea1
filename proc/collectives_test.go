package proc

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCollective_RunsEveryRank(t *testing.T) {
	ctx := NewContext(4)
	var seen int32
	err := ctx.Collective(func(rank int) error {
		atomic.AddInt32(&seen, 1)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int32(4), seen)
}

func TestCollective_PropagatesFirstError(t *testing.T) {
	ctx := NewContext(3)
	err := ctx.Collective(func(rank int) error {
		if rank == 1 {
			return fmt.Errorf("boom on rank 1")
		}
		// Every other rank should still unblock via Abort rather than hang.
		return nil
	})
	require.Error(t, err)
}

func TestGopSum(t *testing.T) {
	ctx := NewContext(4)
	err := ctx.Collective(func(rank int) error {
		sum := GopSum(ctx, rank, int64(rank+1)) // 1+2+3+4
		require.Equal(t, int64(10), sum)
		return nil
	})
	require.NoError(t, err)
}

func TestGopMinMax(t *testing.T) {
	ctx := NewContext(3)
	err := ctx.Collective(func(rank int) error {
		min := GopMin(ctx, rank, rank)
		max := GopMax(ctx, rank, rank)
		require.Equal(t, 0, min)
		require.Equal(t, 2, max)
		return nil
	})
	require.NoError(t, err)
}

func TestBroadcast(t *testing.T) {
	ctx := NewContext(3)
	err := ctx.Collective(func(rank int) error {
		got := Broadcast(ctx, rank, Rank0, rank*100)
		require.Equal(t, 0, got) // root (rank 0) contributed 0
		return nil
	})
	require.NoError(t, err)
}

func TestAllgather(t *testing.T) {
	ctx := NewContext(3)
	err := ctx.Collective(func(rank int) error {
		got := Allgather(ctx, rank, []int{rank})
		require.Equal(t, []int{0, 1, 2}, got)
		return nil
	})
	require.NoError(t, err)
}

func TestFileExists_RootProbeBroadcastsToAllRanks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "present.nc")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	ctx := NewContext(3)
	err := ctx.Collective(func(rank int) error {
		require.True(t, FileExists(ctx, rank, path))
		require.False(t, FileExists(ctx, rank, filepath.Join(dir, "missing.nc")))
		return nil
	})
	require.NoError(t, err)
}

func TestPartitionRanks_SplitsIntoContiguousGroups(t *testing.T) {
	ctx := NewContext(4)
	idx0, local0, perGroup := ctx.PartitionRanks(0, 2)
	idx1, _, _ := ctx.PartitionRanks(1, 2)
	idx2, _, _ := ctx.PartitionRanks(2, 2)
	idx3, _, _ := ctx.PartitionRanks(3, 2)

	require.Equal(t, 2, perGroup)
	require.Equal(t, 0, idx0)
	require.Equal(t, 0, idx1)
	require.Equal(t, 1, idx2)
	require.Equal(t, 1, idx3)
	require.Equal(t, 2, local0.NumRanks)
}

func TestPartitionRanks_ClampsGroupCountToRankCount(t *testing.T) {
	ctx := NewContext(2)
	_, local, perGroup := ctx.PartitionRanks(0, 10)
	require.Equal(t, 1, perGroup)
	require.Equal(t, 1, local.NumRanks)
}

func TestAbort_RecordsFirstErrorIdempotently(t *testing.T) {
	ctx := NewContext(1)
	require.Nil(t, ctx.AbortErr())
	boom := fmt.Errorf("boom")
	ctx.Abort(boom)
	require.Equal(t, boom, ctx.AbortErr())

	// Idempotent: a second Abort call does not override the first error.
	ctx.Abort(fmt.Errorf("different"))
	require.Equal(t, boom, ctx.AbortErr())
}
