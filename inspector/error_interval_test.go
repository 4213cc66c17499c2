package inspector

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/grailbio/asmqc/interval"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSmallScaleErrors(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, SmallScaleFileName)
	writeTestFile(t, path, testSmallScaleBED)

	errs, err := ReadSmallScaleErrors(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, errs, 3)
	expect.EQ(t, errs[0].Contig, "contig_1")
	expect.EQ(t, errs[0].Span(), interval.Span{Start: 100, End: 101})
	expect.EQ(t, errs[0].Type, BaseSubstitution)
	expect.EQ(t, errs[0].Size, int64(1))
	expect.EQ(t, errs[1].Size, int64(10))
	expect.EQ(t, errs[2].Type, "SmallCollapse")
	expect.EQ(t, errs[2].Columns[3], "ACGTACGTAC")
	expect.EQ(t, len(errs[2].Columns), len(SmallScaleColumns))
}

func TestReadStructuralErrors(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, StructuralFileName)
	writeTestFile(t, path, testStructuralBED)

	errs, err := ReadStructuralErrors(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, errs, 3)
	expect.EQ(t, errs[0].Size, int64(1000))
	// Multi-locus calls use their first position and first size.
	expect.EQ(t, errs[1].Contig, "contig_2")
	expect.EQ(t, errs[1].Span(), interval.Span{Start: 5000, End: 5100})
	expect.EQ(t, errs[1].Size, int64(100))
	expect.EQ(t, errs[1].Columns[1], "5000;9000")
	expect.EQ(t, errs[2].Type, "Collapse")
}

func TestStructuralReversedEnds(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, StructuralFileName)
	writeTestFile(t, path, "contig_1\t900;100\t500;700\t3\tHaplotypeSwitch\tSize=50\t.\t1\t1\t1\tr\t.\n")
	errs, err := ReadStructuralErrors(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, errs, 1)
	expect.EQ(t, errs[0].Span(), interval.Span{Start: 500, End: 900})
}

func TestParseSizeInfo(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"Size=1000", 1000},
		{"Size=100;Size=200", 100},
		{"Type=x;Size=42", 42},
		{"Size=;Size=7", 7},
		{".", 0},
		{"", 0},
	}
	for _, test := range tests {
		expect.EQ(t, parseSizeInfo(test.in), test.want, test.in)
	}
}

func TestReadErrorsMissingFile(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	ctx := context.Background()
	errs, err := ReadSmallScaleErrors(ctx, filepath.Join(tmpDir, "nope.bed"))
	require.NoError(t, err)
	assert.Len(t, errs, 0)
	errs, err = ReadStructuralErrors(ctx, filepath.Join(tmpDir, "nope.bed"))
	require.NoError(t, err)
	assert.Len(t, errs, 0)
}

func TestReadErrorsMalformed(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, SmallScaleFileName)
	for _, content := range []string{
		"contig_1\tx\t101\tA\tG\t5\t30\tBaseSubstitution\t0.001\n",
		"contig_1\t100\t90\tA\tG\t5\t30\tBaseSubstitution\t0.001\n",
		"contig_1\t-5\t90\tA\tG\t5\t30\tBaseSubstitution\t0.001\n",
	} {
		writeTestFile(t, path, content)
		_, err := ReadSmallScaleErrors(context.Background(), path)
		require.Error(t, err, content)
		expect.True(t, errors.Is(errors.Invalid, err), content)
	}
}
