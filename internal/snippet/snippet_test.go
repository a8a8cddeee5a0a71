package snippet

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConvert_RawFields(t *testing.T) {
	in := "-22.817092,-47.092430\n-22.8171, -47.0925 ,12\nnot a point\n\n"
	var out bytes.Buffer

	res, err := Convert(strings.NewReader(in), &out, "")
	require.NoError(t, err)
	require.Equal(t, Result{Lines: 4, Written: 2, Skipped: 2}, res)
	require.Equal(t,
		"dataPtr->push_back(QGeoCoordinate(-22.817092,-47.092430));\n"+
			"dataPtr->push_back(QGeoCoordinate(-22.8171, -47.0925 ));\n",
		out.String())
}

func TestConvert_CustomContainer(t *testing.T) {
	var out bytes.Buffer
	_, err := Convert(strings.NewReader("1,2\n"), &out, "path")
	require.NoError(t, err)
	require.Equal(t, "path->push_back(QGeoCoordinate(1,2));\n", out.String())
}

func TestConvert_EmptyInput(t *testing.T) {
	var out bytes.Buffer
	res, err := Convert(strings.NewReader(""), &out, "dataPtr")
	require.NoError(t, err)
	require.Zero(t, res.Written)
	require.Empty(t, out.String())
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "processed_primeiro.txt")
	out := filepath.Join(dir, "out_primeiro.txt")
	require.NoError(t, os.WriteFile(in, []byte("10,20\r\n30,40\r\n"), 0o644))
	require.NoError(t, os.WriteFile(out, []byte("stale\n"), 0o644))

	res, err := ConvertFile(in, out, DefaultContainer)
	require.NoError(t, err)
	require.Equal(t, 2, res.Written)

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "dataPtr->push_back(QGeoCoordinate(10,20));\ndataPtr->push_back(QGeoCoordinate(30,40));\n", string(b))
}

func TestConvertFile_MissingInput(t *testing.T) {
	_, err := ConvertFile(filepath.Join(t.TempDir(), "missing.txt"), filepath.Join(t.TempDir(), "out.txt"), "")
	require.Error(t, err)
}
