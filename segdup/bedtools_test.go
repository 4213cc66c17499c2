package segdup

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeStub installs an executable shell script standing in for bedtools.
// It records its arguments in <dir>/args, then runs body.
func writeStub(t *testing.T, dir, body string) string {
	path := filepath.Join(dir, "bedtools")
	script := "#!/bin/sh\necho \"$@\" > " + filepath.Join(dir, "args") + "\n" + body + "\n"
	require.NoError(t, ioutil.WriteFile(path, []byte(script), 0755))
	return path
}

func TestBedtoolsOverlapper(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	rc, _ := newTestRun(t, tmpDir)
	defer rc.Cleanup()

	stub := writeStub(t, tmpDir, `printf 'chr1\t100\t200\tsA\tchr2\t1\t5\t1\tchr1\t150\t250\tsB\tchr2\t1\t6\t4\n'
printf 'chr3\t10\t20\tx\tchr4\t1\t5\t2\tchr3\t12\t22\ty\tchr4\t1\t6\t7\n'`)
	a := []HalfView{view("chr1", 100, 200, 1), view("chr3", 10, 20, 2)}
	b := []HalfView{view("chr1", 150, 250, 4)}
	o := BedtoolsOverlapper{Path: stub, RC: rc}
	got, err := o.Overlap(context.Background(), a, b, OverlapOpts{MinFracA: 0.5, MinFracB: 0.25})
	require.NoError(t, err)
	assert.Equal(t, []MatchPair{{1, 4, "sA", "sB"}, {2, 7, "x", "y"}}, got)

	args, err := ioutil.ReadFile(filepath.Join(tmpDir, "args"))
	require.NoError(t, err)
	fields := strings.Fields(string(args))
	require.Len(t, fields, 11)
	expect.EQ(t, fields[:9], []string{"intersect", "-f", "0.5", "-F", "0.25", "-wa", "-wb", "-a", fields[8]})
	expect.EQ(t, fields[9], "-b")
	// Both view files are written once into the scratch directory.
	expect.EQ(t, filepath.Dir(fields[8]), rc.TempDir)
	expect.EQ(t, filepath.Dir(fields[10]), rc.TempDir)
	assert.NotEqual(t, fields[8], fields[10])
	views, err := ReadHalfViews(context.Background(), fields[8])
	require.NoError(t, err)
	expect.EQ(t, views, a)
	views, err = ReadHalfViews(context.Background(), fields[10])
	require.NoError(t, err)
	expect.EQ(t, views, b)
}

func TestBedtoolsOverlapperFailure(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	rc, _ := newTestRun(t, tmpDir)
	defer rc.Cleanup()
	a := []HalfView{view("chr1", 100, 200, 1)}

	stub := writeStub(t, tmpDir, "echo 'unknown option' >&2\nexit 1")
	_, err := BedtoolsOverlapper{Path: stub, RC: rc}.Overlap(context.Background(), a, a, OverlapOpts{0.5, 0.5})
	require.Error(t, err)
	expect.HasSubstr(t, err.Error(), "unknown option")

	// Unparseable output is reported once the process has exited.
	stub = writeStub(t, tmpDir, `printf 'chr1\tx\n'
i=0; while [ $i -lt 2000 ]; do printf 'chr1\t1\t2\tn\tchr2\t1\t5\t1\tchr1\t1\t2\tm\tchr2\t1\t5\t3\n'; i=$((i+1)); done`)
	_, err = BedtoolsOverlapper{Path: stub, RC: rc}.Overlap(context.Background(), a, a, OverlapOpts{0.5, 0.5})
	require.Error(t, err)
	assert.True(t, errors.Is(errors.Invalid, err), "%v", err)

	_, err = BedtoolsOverlapper{Path: filepath.Join(tmpDir, "nonexistent"), RC: rc}.Overlap(context.Background(), a, a, OverlapOpts{0.5, 0.5})
	assert.Error(t, err)
}
