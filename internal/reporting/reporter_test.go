// internal/reporting/reporter_test.go
package reporting_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/boxflow/api/schemas"
	"github.com/xkilldash9x/boxflow/internal/config"
	"github.com/xkilldash9x/boxflow/internal/engine"
	"github.com/xkilldash9x/boxflow/internal/reporting"
)

const testToolVersion = "v1.0.0-test"

// closeRecorder is an in-memory WriteCloser that records Close calls.
type closeRecorder struct {
	bytes.Buffer
	closed int
}

func (c *closeRecorder) Close() error {
	c.closed++
	return nil
}

func renderResult(t *testing.T, name string) *engine.Result {
	t.Helper()
	e, err := engine.New(config.NewDefaultConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	res, err := e.Render(context.Background(), engine.Job{
		ID:       "id-" + name,
		Name:     name,
		HTML:     []byte(`<div id="a"><p class="x">hi</p></div>`),
		CSS:      `#a { display: block; width: 100px; background-color: red; } .x { display: inline-block; width: 40px; height: 10px; }`,
		Fragment: true,
	})
	require.NoError(t, err)
	return res
}

// -- Factory Tests --

func TestNew_Stdout(t *testing.T) {
	for _, path := range []string{"", "stdout", "-"} {
		for _, format := range []string{"text", "json"} {
			r, err := reporting.New(format, path, testToolVersion)
			require.NoError(t, err)
			assert.NotNil(t, r)
			if format == "text" {
				// Closing the stdout wrapper is a no-op.
				assert.NoError(t, r.Close())
			}
		}
	}
}

func TestNew_File(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "out.json")

	r, err := reporting.New("json", tmpFile, testToolVersion)
	require.NoError(t, err)
	_, err = os.Stat(tmpFile)
	assert.NoError(t, err, "Output file should have been created")

	require.NoError(t, r.Write(renderResult(t, "file")))
	require.NoError(t, r.Close())

	data, err := os.ReadFile(tmpFile)
	require.NoError(t, err)
	var log schemas.RenderLog
	require.NoError(t, json.Unmarshal(data, &log))
	assert.Len(t, log.Reports, 1)
}

func TestNew_Failure(t *testing.T) {
	r, err := reporting.New("sarif", "stdout", testToolVersion)
	assert.Nil(t, r)
	assert.EqualError(t, err, "unsupported output format: sarif")

	tmpFile := filepath.Join(t.TempDir(), "never.txt")
	_, err = reporting.New("xml", tmpFile, testToolVersion)
	require.Error(t, err)
	_, statErr := os.Stat(tmpFile)
	assert.True(t, os.IsNotExist(statErr), "no file is created for an unsupported format")

	_, err = reporting.New("text", filepath.Join(t.TempDir(), "missing", "dir", "out.txt"), testToolVersion)
	assert.ErrorContains(t, err, "failed to create output file")
}

func TestIsStdout(t *testing.T) {
	assert.True(t, reporting.IsStdout(""))
	assert.True(t, reporting.IsStdout("-"))
	assert.True(t, reporting.IsStdout("stdout"))
	assert.False(t, reporting.IsStdout("out.txt"))
}

// -- JSON Reporter --

func TestJSONReporter(t *testing.T) {
	buf := &closeRecorder{}
	r := reporting.NewJSONReporter(buf, testToolVersion)

	require.NoError(t, r.Write(renderResult(t, "first")))
	require.NoError(t, r.Write(renderResult(t, "second")))
	assert.Error(t, r.Write(nil))
	require.NoError(t, r.Close())
	require.NoError(t, r.Close(), "closing twice is harmless")
	assert.Equal(t, 1, buf.closed)
	assert.Error(t, r.Write(renderResult(t, "late")))

	var log schemas.RenderLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.Equal(t, reporting.ToolName, log.Tool)
	assert.Equal(t, testToolVersion, log.Version)
	assert.WithinDuration(t, time.Now(), log.GeneratedAt, time.Minute)
	require.Len(t, log.Reports, 2)

	first := log.Reports[0]
	assert.Equal(t, "id-first", first.JobID)
	assert.Equal(t, "first", first.Name)
	require.NotNil(t, first.Layout)
	assert.Equal(t, "div#a", first.Layout.Element)
	require.Len(t, first.Layout.Children, 1)
	assert.InDelta(t, 40.0, first.Layout.Children[0].Content.Width, 0.001)
	require.Len(t, first.DisplayList, 1)

	// Field names on the wire.
	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	reports := raw["reports"].([]interface{})
	entry := reports[0].(map[string]interface{})
	assert.Contains(t, entry, "job_id")
	assert.Contains(t, entry, "display_list")
	assert.Contains(t, entry["layout"].(map[string]interface{}), "border_box")
}

func TestJSONReporter_Empty(t *testing.T) {
	buf := &closeRecorder{}
	r := reporting.NewJSONReporter(buf, testToolVersion)
	require.NoError(t, r.Close())

	var log schemas.RenderLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	assert.NotNil(t, log.Reports)
	assert.Empty(t, log.Reports)
}

// -- Text Reporter --

func TestTextReporter(t *testing.T) {
	buf := &closeRecorder{}
	r := reporting.NewTextReporter(buf)

	require.NoError(t, r.Write(renderResult(t, "page")))
	require.NoError(t, r.Write(renderResult(t, "again")))
	assert.Error(t, r.Write(nil))
	require.NoError(t, r.Close())
	assert.Equal(t, 1, buf.closed)

	out := buf.String()
	assert.Contains(t, out, "=== page (id-page) viewport 1024x768")
	assert.Contains(t, out, "=== again (id-again)")
	assert.Contains(t, out, "--- stylesheet ---\n#a {")
	assert.Contains(t, out, "--- styles ---\ndiv#a {")
	assert.Contains(t, out, "--- layout ---\nblock div#a content=(x=462 y=0 w=100 h=0)")
	assert.Contains(t, out, "  inline-block p.x content=(x=462 y=0 w=40 h=10)")
	assert.Contains(t, out, "--- display list ---\nrect rgba(255, 0, 0, 1) x=462 y=0 w=100 h=0\n")
}

func TestNewForWriter(t *testing.T) {
	var buf bytes.Buffer
	r, err := reporting.NewForWriter("text", &buf, testToolVersion)
	require.NoError(t, err)
	require.NoError(t, r.Write(renderResult(t, "w")))
	require.NoError(t, r.Close())
	assert.Contains(t, buf.String(), "=== w (id-w)")

	_, err = reporting.NewForWriter("yaml", &buf, testToolVersion)
	assert.EqualError(t, err, "unsupported output format: yaml")
}
