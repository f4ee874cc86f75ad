package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func TestContentIDKnownDigest(t *testing.T) {
	// SHA-1 of "World of Concrete 20202020-03-192020-03-24Las Vegas".
	id := ContentID(
		strp("World of Concrete 2020"),
		strp("2020-03-19"),
		strp("2020-03-24"),
		strp("Las Vegas"),
	)
	assert.Equal(t, "1be214eb311cdadf9822bd346f580e8a0eb3506e", id)
}

func TestContentIDIdempotent(t *testing.T) {
	inputs := []*string{strp("Expo"), strp("2024-01-01"), nil, strp("Boston")}
	assert.Equal(t, ContentID(inputs...), ContentID(inputs...))
}

func TestContentIDSkipsAbsentInputs(t *testing.T) {
	// nil and empty both drop out of the hashed concatenation.
	withNil := ContentID(strp("Expo"), nil, strp("2024-01-01"), nil)
	withEmpty := ContentID(strp("Expo"), strp(""), strp("2024-01-01"), strp(""))
	assert.Equal(t, withNil, withEmpty)
}

func TestContentIDDistinguishesInputs(t *testing.T) {
	a := ContentID(strp("Expo"), strp("2024-01-01"))
	b := ContentID(strp("Expo"), strp("2024-01-02"))
	assert.NotEqual(t, a, b)
}

func TestRevisionID(t *testing.T) {
	cases := map[string]string{
		`"8f2b4c7a-1d0e-4a6b-9c3f-5e7a2b8d4f6c,12"`: "8f2b4c7a-1d0e-4a6b-9c3f-5e7a2b8d4f6c",
		`"42,3"`: "42",
		"42,3":   "42",
		"42":     "42",
	}
	for tag, want := range cases {
		assert.Equal(t, want, RevisionID(tag), "tag=%s", tag)
	}
}
