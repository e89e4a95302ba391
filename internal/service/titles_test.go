package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitles_Plain(t *testing.T) {
	titles := NewTitles(false)
	titles.roll = func() float64 { return 0 }

	assert.Equal(t, "Artists", titles.Artists())
	assert.Equal(t, "Albums for Band", titles.Albums("Band"))
	assert.Equal(t, "Songs in First", titles.Songs("First"))
	assert.Equal(t, "Search: abc (2 results)", titles.Search("abc", 2))
}

func TestTitles_EasterEgg(t *testing.T) {
	titles := NewTitles(true)

	titles.roll = func() float64 { return 0.01 }
	title := titles.Artists()
	assert.True(t, strings.HasPrefix(title, "Artists - made with "), title)
	assert.Contains(t, easterEggs, strings.TrimPrefix(title, "Artists"))

	titles.roll = func() float64 { return easterEggChance }
	assert.Equal(t, "Artists", titles.Artists())
}
