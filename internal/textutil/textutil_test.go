package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectEOL(t *testing.T) {
	assert.Equal(t, "\n", DetectEOL(""))
	assert.Equal(t, "\n", DetectEOL("<?php"))
	assert.Equal(t, "\n", DetectEOL("a\nb\r\n"))
	assert.Equal(t, "\r\n", DetectEOL("a\r\nb\n"))
	assert.Equal(t, "\n", DetectEOL("\n"))
}

func TestSplitLinesKeepNL(t *testing.T) {
	assert.Equal(t, []string{}, SplitLinesKeepNL(""))
	assert.Equal(t, []string{"a\n", "b"}, SplitLinesKeepNL("a\nb"))
	assert.Equal(t, []string{"a\r\n", "\n"}, SplitLinesKeepNL("a\r\n\n"))
}

func TestTrimEOL(t *testing.T) {
	assert.Equal(t, "a", TrimEOL("a\r\n"))
	assert.Equal(t, "a", TrimEOL("a\n"))
	assert.Equal(t, "a\r", TrimEOL("a\r"))
	assert.Equal(t, "a\r", TrimEOL("a\r\r\n"))
	assert.Equal(t, "", TrimEOL("\n"))
}
