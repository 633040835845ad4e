package imstiff

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordLogger struct {
	lines []string
}

func (r *recordLogger) Debugf(format string, args ...interface{}) {
	r.lines = append(r.lines, "DEBUG "+fmt.Sprintf(format, args...))
}

func (r *recordLogger) Infof(format string, args ...interface{}) {
	r.lines = append(r.lines, "INFO "+fmt.Sprintf(format, args...))
}

func (r *recordLogger) Warningf(format string, args ...interface{}) {
	r.lines = append(r.lines, "WARNING "+fmt.Sprintf(format, args...))
}

func (r *recordLogger) Errorf(format string, args ...interface{}) {
	r.lines = append(r.lines, "ERROR "+fmt.Sprintf(format, args...))
}

func (r *recordLogger) Shutdown() {
	r.lines = append(r.lines, "SHUTDOWN")
}

func TestLogMode(t *testing.T) {
	defer SetLogger(nil)
	defer SetLogMode(InfoMode)

	rec := &recordLogger{}
	SetLogger(rec)
	SetLogMode(WarningMode)

	Debugf("a")
	Infof("b")
	Warningf("c %d", 1)
	Errorf("d")
	assert.Equal(t, []string{"WARNING c 1", "ERROR d"}, rec.lines)

	rec.lines = nil
	SetLogMode(DebugMode)
	_, _, err := Reshape([]*Directory{channel(1, 1, 8, []uint{0}, []uint{1})})
	require.NoError(t, err)
	assert.Contains(t, rec.lines, "INFO Verifying IFD sanity")
	assert.Contains(t, rec.lines, "INFO Populating metadata")

	ShutdownLogger()
	assert.Equal(t, "SHUTDOWN", rec.lines[len(rec.lines)-1])
}

func TestParseLogMode(t *testing.T) {
	m, err := ParseLogMode("Debug")
	require.NoError(t, err)
	assert.Equal(t, DebugMode, m)

	m, err = ParseLogMode("")
	require.NoError(t, err)
	assert.Equal(t, InfoMode, m)

	_, err = ParseLogMode("loud")
	assert.EqualError(t, err, `unknown log mode "loud"`)
}

func TestLogConfig_SetLogger(t *testing.T) {
	defer SetLogger(nil)
	defer SetLogMode(InfoMode)

	path := filepath.Join(t.TempDir(), "imstiff.log")
	c := &LogConfig{Logfile: path, MaxSize: 1, MaxAge: 1, Mode: "info"}
	require.NoError(t, c.SetLogger())

	Infof("written to %s", "file")
	ShutdownLogger()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO written to file")

	assert.Error(t, (&LogConfig{Mode: "loud"}).SetLogger())
}
