package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewDedupKeyIsDeterministic(t *testing.T) {
	a := ViewDedupKey(42, "abcd-ef01-2345", "2026-08-28")
	b := ViewDedupKey(42, "abcd-ef01-2345", "2026-08-28")
	assert.Equal(t, a, b)
	assert.Equal(t, "42:20260828:abcdef012345", a)
}

func TestViewDedupKeySeparatesWindowAndVisitor(t *testing.T) {
	base := ViewDedupKey(7, "visitor-one", "2026-08-28")
	assert.NotEqual(t, base, ViewDedupKey(7, "visitor-one", "2026-08-29"))
	assert.NotEqual(t, base, ViewDedupKey(7, "visitor-two", "2026-08-28"))
	assert.NotEqual(t, base, ViewDedupKey(8, "visitor-one", "2026-08-28"))
}

func TestReactionDedupKey(t *testing.T) {
	key := ReactionDedupKey(7, ReactionLike, "visitor-one")
	assert.Equal(t, "7:like:visitorone", key)
	assert.NotEqual(t, key, ReactionDedupKey(7, ReactionLove, "visitor-one"))
}

func TestValidReactionKind(t *testing.T) {
	for _, k := range ReactionKinds {
		assert.True(t, ValidReactionKind(k), k)
	}
	assert.False(t, ValidReactionKind("dislike"))
	assert.False(t, ValidReactionKind(""))
}
