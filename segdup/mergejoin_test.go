package segdup

import (
	"context"
	"math/rand"
	"path/filepath"
	"sort"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairs(lines ...int) []MatchPair {
	var p []MatchPair
	for i := 0; i+1 < len(lines); i += 2 {
		p = append(p, MatchPair{LineA: lines[i], LineB: lines[i+1]})
	}
	return p
}

func TestMergeJoinExample(t *testing.T) {
	got := MergeJoin(pairs(1, 3, 2, 4), pairs(1, 3, 5, 6))
	expect.EQ(t, got, pairs(1, 3))
}

func TestMergeJoinEdgeCases(t *testing.T) {
	tests := []struct {
		front, back, want []MatchPair
	}{
		{nil, nil, nil},
		{pairs(1, 1), nil, nil},
		{nil, pairs(1, 1), nil},
		{pairs(1, 1, 2, 2), pairs(3, 3, 4, 4), nil},
		// Unsorted input.
		{pairs(5, 1, 2, 9, 1, 1), pairs(1, 1, 5, 1), pairs(1, 1, 5, 1)},
		// Same lineA, differing lineB.
		{pairs(1, 2, 1, 3, 1, 4), pairs(1, 1, 1, 3, 1, 5), pairs(1, 3)},
		// Repeats collapse.
		{pairs(2, 2, 2, 2, 2, 2), pairs(2, 2, 2, 2), pairs(2, 2)},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, MergeJoin(test.front, test.back), "front %v back %v", test.front, test.back)
	}
}

func TestMergeJoinDoesNotReorderInput(t *testing.T) {
	front := pairs(3, 1, 1, 1)
	back := pairs(1, 1)
	MergeJoin(front, back)
	expect.EQ(t, front, pairs(3, 1, 1, 1))
}

func randomPairs(r *rand.Rand, n, maxLine int) []MatchPair {
	p := make([]MatchPair, n)
	for i := range p {
		p[i] = MatchPair{LineA: 1 + r.Intn(maxLine), LineB: 1 + r.Intn(maxLine)}
	}
	return p
}

func TestMergeJoinEqualsIntersection(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	type key struct{ a, b int }
	for iter := 0; iter < 500; iter++ {
		maxLine := 1 + r.Intn(12)
		front := randomPairs(r, r.Intn(40), maxLine)
		back := randomPairs(r, r.Intn(40), maxLine)

		inBack := map[key]bool{}
		for _, p := range back {
			inBack[key{p.LineA, p.LineB}] = true
		}
		wantSet := map[key]bool{}
		for _, p := range front {
			if inBack[key{p.LineA, p.LineB}] {
				wantSet[key{p.LineA, p.LineB}] = true
			}
		}
		var want []MatchPair
		for k := range wantSet {
			want = append(want, MatchPair{LineA: k.a, LineB: k.b})
		}
		sort.Slice(want, func(i, j int) bool { return compareMatchPairs(&want[i], &want[j]) < 0 })

		got := MergeJoin(front, back)
		require.Equal(t, want, got, "front %v back %v", front, back)
	}
}

func TestMatchPairsRoundTrip(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()
	path := filepath.Join(tmpDir, "pairs.tsv")
	want := []MatchPair{{1, 3, "a1", "b3"}, {2, 9, "a2", "b9"}}
	require.NoError(t, WriteMatchPairs(ctx, path, want))
	got, err := ReadMatchPairs(ctx, path)
	require.NoError(t, err)
	expect.EQ(t, got, want)
}
