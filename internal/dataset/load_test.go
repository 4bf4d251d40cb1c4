package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `年份,全球南方国家GDP占比(%),亚洲贡献(%),非洲贡献(%),拉丁美洲贡献(%),大洋洲贡献(%)
2000,30,20,4,5,1
2005,32,22,4,5,1
2010,35,25,4.5,4.5,1
2015,38,28,4.5,4.5,1
2020,40,30,4.5,4.5,1
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func loadKind(t *testing.T, err error) ErrorKind {
	t.Helper()
	var le *LoadError
	require.True(t, errors.As(err, &le), "expected *LoadError, got %v", err)
	return le.Kind
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "global_south_gdp.csv", sampleCSV)

	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, table.Len())
	assert.Equal(t, "年份", table.Header[0])
	assert.Equal(t, []string{"2000", "30", "20", "4", "5", "1"}, table.Rows[0])
}

func TestLoad_StripsBOM(t *testing.T) {
	path := writeFile(t, "bom.csv", "\uFEFF"+sampleCSV)

	table, err := Load(path)
	require.NoError(t, err)
	assert.True(t, table.HasColumn("年份"))
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Equal(t, NotFound, loadKind(t, err))
	assert.Contains(t, Describe(err), "does not exist")
}

func TestLoad_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("file modes are not enforced for this user")
	}
	path := writeFile(t, "locked.csv", sampleCSV)
	require.NoError(t, os.Chmod(path, 0o000))

	_, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, PermissionDenied, loadKind(t, err))
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Equal(t, Unknown, loadKind(t, err))
}

func TestLoad_Empty(t *testing.T) {
	tests := map[string]string{
		"empty file":  "",
		"header only": "年份,全球南方国家GDP占比(%)\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "empty.csv", content))
			require.Error(t, err)
			assert.Equal(t, EmptyDataset, loadKind(t, err))
		})
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	tests := map[string]string{
		"bare quote":   "a,b\n1,\"x\"y\n",
		"extra fields": "a,b\n1,2,3\n",
		"invalid utf8": "a,b\n1,\xff\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.csv", content))
			require.Error(t, err)
			assert.Equal(t, ParseError, loadKind(t, err))
			assert.Contains(t, Describe(err), "CSV parse error")
		})
	}
}

func TestLoad_PadsShortRows(t *testing.T) {
	table, err := Load(writeFile(t, "short.csv", "a,b,c\n1,2\n"))
	require.NoError(t, err)

	if diff := cmp.Diff([][]string{{"1", "2", ""}}, table.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}
