package main

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatVersion(t *testing.T) {
	out := formatVersion()

	assert.True(t, strings.HasPrefix(out, "reaprc "))
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
	assert.True(t, strings.HasSuffix(out, "\n"))
}
