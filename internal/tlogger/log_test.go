package tlogger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetOutputFiltersLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	SetOutput(buf, "warn")
	defer SetOutput(&bytes.Buffer{}, "info")

	Info("msg", "hidden")
	Warn("msg", "shown", "path", "docs/index.html")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=warn")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "path=docs/index.html")
	assert.Contains(t, out, "caller=log_test.go")
}
