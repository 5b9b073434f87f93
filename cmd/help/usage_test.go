package help

import (
	"flag"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsage(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.String("output", "", "Path the sanitized records are written to")
	fs.Int("rows", 3, "Number of rows to preview")
	fs.Bool("json", false, "Print JSON instead of text")

	out := Usage("  Usage: dashtool test [options]\n", fs)

	assert.True(t, strings.HasPrefix(out, "Usage: dashtool test [options]\n\nCommand Options\n\n"))
	assert.Contains(t, out, "  -json\n     Print JSON instead of text")
	assert.Contains(t, out, "  -output\n     Path the sanitized records are written to")
	assert.Contains(t, out, "  -rows=3\n     Number of rows to preview")
	assert.False(t, strings.HasSuffix(out, "\n"))
}

func TestUsage_NoFlags(t *testing.T) {
	assert.Equal(t, "Usage: dashtool version", Usage("Usage: dashtool version", nil))

	fs := flag.NewFlagSet("empty", flag.ContinueOnError)
	assert.Equal(t, "Usage: dashtool version", Usage("Usage: dashtool version", fs))
}

func TestWrapAtLength(t *testing.T) {
	long := strings.Repeat("word ", 30)
	for _, line := range strings.Split(wrapAtLength(long, 5), "\n") {
		assert.LessOrEqual(t, len(line), maxLineLength)
		assert.True(t, strings.HasPrefix(line, "     "))
	}
}
