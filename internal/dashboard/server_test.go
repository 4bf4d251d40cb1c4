package dashboard

import (
	"bytes"
	"image/gif"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"globalsouth/internal/config"
	"globalsouth/internal/dataset"
	"globalsouth/internal/export"
)

const sampleCSV = `年份,全球南方国家GDP占比(%),亚洲贡献(%),非洲贡献(%),拉丁美洲贡献(%),大洋洲贡献(%)
2000,30,20,4,5,1
2005,32,22,4,5,1
2010,35,25,4.5,4.5,1
2015,38,28,4.5,4.5,1
2020,40,30,4.5,4.5,1
`

func newTestServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataPath = filepath.Join(t.TempDir(), "global_south_gdp.csv")
	cfg.Server.WatchFiles = false
	if content != "" {
		require.NoError(t, os.WriteFile(cfg.DataPath, []byte(content), 0o644))
	}

	srv, err := New(cfg, dataset.NewCache(cfg.Schema()), zap.NewNop())
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestIndex(t *testing.T) {
	ts := newTestServer(t, sampleCSV)

	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := string(body)
	assert.Contains(t, page, "Starting share (2000)")
	assert.Contains(t, page, "30.00%")
	assert.Contains(t, page, "Current share (2020)")
	assert.Contains(t, page, "40.00%")
	assert.Contains(t, page, "/charts/share.gif?")
	assert.Contains(t, page, "亚洲颜色")
	assert.NotContains(t, page, "No data found")
}

func TestIndex_MissingFileShowsOnlyError(t *testing.T) {
	ts := newTestServer(t, "")

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	page := string(body)
	assert.Contains(t, page, "does not exist")
	assert.NotContains(t, page, "/charts/")
	assert.NotContains(t, page, "Download")
}

func TestIndex_MissingColumns(t *testing.T) {
	ts := newTestServer(t, "年份,亚洲贡献(%)\n2000,20\n")

	resp, body := get(t, ts.URL+"/")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "非洲贡献(%)")
}

func TestIndex_Warnings(t *testing.T) {
	ts := newTestServer(t, sampleCSV+"2025,,32,5,5,1\n")

	resp, body := get(t, ts.URL+"/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "missing value")
}

func TestCharts(t *testing.T) {
	ts := newTestServer(t, sampleCSV)

	resp, body := get(t, ts.URL+"/charts/share.png?year=2010")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)

	resp, body = get(t, ts.URL+"/charts/regions.gif?region=Asia&speed=1000")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	anim, err := gif.DecodeAll(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Len(t, anim.Image, 5)
	assert.Equal(t, 100, anim.Delay[0])

	resp, _ = get(t, ts.URL+"/charts/pie.png?year=2015")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestPie_NoDataForYear(t *testing.T) {
	ts := newTestServer(t, sampleCSV)

	resp, body := get(t, ts.URL+"/charts/pie.png?year=2012")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "2012")

	resp, body = get(t, ts.URL+"/?year=2012")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "No data found for 2012")
}

func TestDownloads(t *testing.T) {
	ts := newTestServer(t, sampleCSV)

	resp, body := get(t, ts.URL+"/download/data.csv")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), export.CSVFileName)

	resp, body = get(t, ts.URL+"/download/data.xlsx")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	f, err := excelize.OpenReader(bytes.NewReader(body))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.DataSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	resp, body = get(t, ts.URL+"/report.md?region=Africa")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Leading region**: Africa")
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, "")
	resp, body := get(t, ts.URL+"/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestIndex_NoRegionSelected(t *testing.T) {
	ts := newTestServer(t, sampleCSV)

	resp, body := get(t, ts.URL+"/?region=&speed=500&year=2020")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	page := string(body)
	assert.Contains(t, page, "Select at least one region.")
	assert.NotContains(t, page, "/charts/regions.gif")
	assert.NotContains(t, page, "/charts/pie.png")
	assert.NotContains(t, page, `value="Asia" checked`)
	assert.Contains(t, page, `<input type="hidden" name="region" value="">`)
}
