package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsScripts(t *testing.T) {
	out := Sanitize(`<p>hi</p><script>alert(1)</script>`)
	assert.Contains(t, out, "<p>hi</p>")
	assert.NotContains(t, out, "script")
}

func TestSanitizeStrictLeavesTextOnly(t *testing.T) {
	out := SanitizeStrict(`<b>bold</b> plain <a href="x">link</a>`)
	assert.Equal(t, "bold plain link", out)
}
