package segdup

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/grailbio/asmqc/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordLine formats a 17-column duplication record with the given loci and
// name.  Unused columns hold filler text.
func recordLine(chrA string, startA, endA int, chrB string, startB, endB int, name string) string {
	cols := make([]string, nRecordFields+2)
	for i := range cols {
		cols[i] = fmt.Sprintf("x%d", i)
	}
	cols[chrAField] = chrA
	cols[startAField] = fmt.Sprint(startA)
	cols[endAField] = fmt.Sprint(endA)
	cols[chrBField] = chrB
	cols[startBField] = fmt.Sprint(startB)
	cols[endBField] = fmt.Sprint(endB)
	cols[nameField] = name
	return strings.Join(cols, "\t")
}

func TestParseRecordSwapsLoci(t *testing.T) {
	r, err := ParseRecord([]byte(recordLine("chr2", 100, 200, "chr1", 50, 150, "dup1")), 1)
	require.NoError(t, err)
	expect.EQ(t, r, Record{
		LineID: 1,
		A:      Locus{"chr1", 50, 150},
		B:      Locus{"chr2", 100, 200},
		Name:   "dup1",
	})

	r, err = ParseRecord([]byte(recordLine("chr1", 500, 600, "chr1", 100, 150, "dup2")+"\r\n"), 7)
	require.NoError(t, err)
	expect.EQ(t, r.A, Locus{"chr1", 100, 150})
	expect.EQ(t, r.B, Locus{"chr1", 500, 600})
	expect.EQ(t, r.LineID, 7)
}

func randomLocus(r *rand.Rand) Locus {
	start := interval.PosType(r.Intn(50))
	return Locus{
		Chr:   fmt.Sprintf("chr%d", r.Intn(3)),
		Start: start,
		End:   start + interval.PosType(r.Intn(20)),
	}
}

func TestCanonicalizeSymmetricAndIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for i := 0; i < 2000; i++ {
		x, y := randomLocus(r), randomLocus(r)
		xy := Record{A: x, B: y, Name: "d"}
		yx := Record{A: y, B: x, Name: "d"}
		xy.Canonicalize()
		yx.Canonicalize()
		assert.Equal(t, xy, yx, "loci %+v %+v", x, y)
		assert.False(t, xy.B.Less(xy.A))

		again := xy
		again.Canonicalize()
		assert.Equal(t, xy, again)
	}
}

func TestFrontBackViews(t *testing.T) {
	r := Record{LineID: 3, A: Locus{"chr1", 10, 20}, B: Locus{"chr5", 30, 45}, Name: "n"}
	expect.EQ(t, r.Front(), HalfView{"chr1", 10, 20, "n", "chr5", 30, 45, 3})
	expect.EQ(t, r.Back(), HalfView{"chr5", 30, 45, "n", "chr1", 10, 20, 3})
}

func TestParseRecordErrors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"chr1\t1\t2", "columns"},
		{recordLine("chr1", 1, 2, "chr2", 3, 4, "n")[:20], "columns"},
		{strings.Replace(recordLine("chr1", 1, 2, "chr2", 3, 4, "n"), "\t1\t", "\tone\t", 1), "invalid syntax"},
		{recordLine("chr1", 10, 2, "chr2", 3, 4, "n"), "end 2 < start 10"},
		{recordLine("chr1", 1, 2, "chr2", -3, 4, "n"), "negative"},
		{recordLine("", 1, 2, "chr2", 3, 4, "n"), "empty contig"},
	}
	for _, test := range tests {
		_, err := ParseRecord([]byte(test.line), 1)
		require.Error(t, err, test.line)
		assert.Contains(t, err.Error(), test.want)
	}
}

func TestScanRecordsLineIDs(t *testing.T) {
	input := strings.Join([]string{
		"#chrom1\tstart1\tend1",
		recordLine("chr1", 1, 10, "chr2", 5, 15, "a"),
		"",
		"# another comment",
		recordLine("chr3", 1, 10, "chr2", 5, 15, "b"),
		recordLine("chr1", 1, 10, "chr1", 0, 15, "c"),
	}, "\n") + "\n"

	var got []Record
	n, err := ScanRecords(strings.NewReader(input), "test", func(r Record) error {
		got = append(got, r)
		return nil
	})
	require.NoError(t, err)
	expect.EQ(t, n, 3)
	require.Len(t, got, 3)
	for i, r := range got {
		expect.EQ(t, r.LineID, i+1)
	}
	expect.EQ(t, got[1].A, Locus{"chr2", 5, 15})
	expect.EQ(t, got[2].A, Locus{"chr1", 0, 15})
}

func TestScanRecordsMalformed(t *testing.T) {
	input := recordLine("chr1", 1, 10, "chr2", 5, 15, "a") + "\n#c\nchr1\tfoo\n"
	_, err := ScanRecords(strings.NewReader(input), "dups.bed", func(Record) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err), "%v", err)
	assert.Contains(t, err.Error(), "dups.bed:3")
}
