package interval

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

const testBED = `# comment
chr1	2488104	2488172
chr1	2488150	2488200
chr1	2489165	2489273
chr1	2489273	2489300
chr2	10	10
chr3	0	5
chr3	5	5
chr3	100	200
`

func TestLoadSortedBEDIntervals(t *testing.T) {
	result, err := NewUnion(strings.NewReader(testBED), NewBEDOpts{})
	expect.NoError(t, err)
	want := Union{nameMap: map[string][]PosType{
		"chr1": {2488104, 2488200, 2489165, 2489300},
		"chr2": {},
		"chr3": {0, 5, 100, 200},
	}}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("Wanted: %v  Got: %v", want, result)
	}
}

func TestLoadOneBasedBED(t *testing.T) {
	bed := "chr1\t1\t10\nchr1\t11\t20\nchr1\t30\t40\n"
	result, err := NewUnion(strings.NewReader(bed), NewBEDOpts{OneBasedInput: true})
	expect.NoError(t, err)
	want := Union{nameMap: map[string][]PosType{
		"chr1": {0, 20, 29, 40},
	}}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("Wanted: %v  Got: %v", want, result)
	}

	// A 1-based start of 0 is invalid.
	_, err = NewUnion(strings.NewReader("chr1\t0\t5\n"), NewBEDOpts{OneBasedInput: true})
	expect.NotNil(t, err)
}

func TestNewUnionErrors(t *testing.T) {
	for _, bed := range []string{
		"chr1\t10\n",
		"chr1\tx\t10\n",
		"chr1\t10\t5\n",
		"chr1\t10\t20\nchr2\t0\t5\nchr1\t30\t40\n",
		"chr1\t10\t20\nchr1\t5\t8\n",
	} {
		_, err := NewUnion(strings.NewReader(bed), NewBEDOpts{})
		expect.NotNil(t, err, bed)
	}
}

func TestUnionQueries(t *testing.T) {
	u, err := NewUnion(strings.NewReader(testBED), NewBEDOpts{})
	require.NoError(t, err)
	expect.EQ(t, u.ChrNames(), []string{"chr1", "chr2", "chr3"})
	expect.EQ(t, u.Spans("chr1"), []Span{{2488104, 2488200}, {2489165, 2489300}})
	expect.EQ(t, u.Spans("chr2"), []Span{})
	expect.EQ(t, u.ChrCoverage("chr1"), int64(96+135))
	expect.EQ(t, u.ChrCoverage("chrX"), int64(0))
	expect.EQ(t, u.Coverage(), int64(96+135+5+100))
}

func TestNewUnionFromEntries(t *testing.T) {
	u, err := NewUnionFromEntries([]Entry{
		{"chr2", 30, 40},
		{"chr1", 15, 25},
		{"chr1", 10, 20},
		{"chr2", 0, 0},
		{"chr1", 30, 40},
		{"chr4", 7, 7},
	})
	require.NoError(t, err)
	expect.EQ(t, u.Spans("chr1"), []Span{{10, 25}, {30, 40}})
	expect.EQ(t, u.ChrCoverage("chr1"), int64(25))
	expect.EQ(t, u.Coverage(), int64(35))
	expect.EQ(t, u.ChrNames(), []string{"chr1", "chr2", "chr4"})

	_, err = NewUnionFromEntries([]Entry{{"chr1", 20, 10}})
	expect.NotNil(t, err)
	_, err = NewUnionFromEntries([]Entry{{"chr1", -1, 10}})
	expect.NotNil(t, err)
}

func TestUnionScannerLimit(t *testing.T) {
	us := NewUnionScanner([]PosType{5, 17, 20, 25})
	var span Span
	var got []Span
	for us.Scan(&span, 22) {
		got = append(got, span)
	}
	for us.Scan(&span, 30) {
		got = append(got, span)
	}
	expect.EQ(t, got, []Span{{5, 17}, {20, 22}, {22, 25}})
}

func TestNewUnionFromPathGzip(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(testBED))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	path := filepath.Join(tmpDir, "test.bed.gz")
	require.NoError(t, ioutil.WriteFile(path, buf.Bytes(), 0644))

	u, err := NewUnionFromPath(context.Background(), path, NewBEDOpts{})
	require.NoError(t, err)
	expect.EQ(t, u.Coverage(), int64(96+135+5+100))
}
