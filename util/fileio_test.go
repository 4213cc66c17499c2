package util

import (
	"bytes"
	"context"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/expect"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, path string) string {
	ctx := context.Background()
	in, err := Open(ctx, path)
	require.NoError(t, err)
	data, err := ioutil.ReadAll(in.Reader())
	require.NoError(t, err)
	require.NoError(t, in.Close(ctx))
	return string(data)
}

func TestOpen(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	const content = "chr1\t10\t20\nchr2\t30\t40\n"
	plain := filepath.Join(tmpDir, "plain.bed")
	require.NoError(t, ioutil.WriteFile(plain, []byte(content), 0644))
	expect.EQ(t, readAll(t, plain), content)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	zipped := filepath.Join(tmpDir, "zipped.bed.gz")
	require.NoError(t, ioutil.WriteFile(zipped, buf.Bytes(), 0644))
	expect.EQ(t, readAll(t, zipped), content)

	// A .gz name over plain text fails at open time.
	bogus := filepath.Join(tmpDir, "bogus.bed.gz")
	require.NoError(t, ioutil.WriteFile(bogus, []byte(content), 0644))
	_, err = Open(context.Background(), bogus)
	require.Error(t, err)
}

func TestOpenMissing(t *testing.T) {
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	_, err := Open(context.Background(), filepath.Join(tmpDir, "missing.bed"))
	require.Error(t, err)
	expect.True(t, errors.Is(errors.NotExist, err))
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	tmpDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	path := filepath.Join(tmpDir, "x.txt")

	ok, err := Exists(ctx, path)
	require.NoError(t, err)
	expect.False(t, ok)

	require.NoError(t, ioutil.WriteFile(path, []byte("x"), 0644))
	ok, err = Exists(ctx, path)
	require.NoError(t, err)
	expect.True(t, ok)
}
