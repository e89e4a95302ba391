package service

import (
	"fmt"
	"math/rand/v2"

	"github.com/samber/lo"
)

// easterEggChance is the probability that a view title gets a suffix.
const easterEggChance = 0.05

var easterEggs = []string{
	" - made with coffee",
	" - made with tea",
	" - made with something",
	" - made with cars",
	" - made with dry wall",
	" - made with chocolate milk",
}

// Titles builds view titles, occasionally decorated with an easter egg.
type Titles struct {
	eggs bool
	roll func() float64
}

// NewTitles creates a title builder. Decoration only happens when showEasterEggs is set.
func NewTitles(showEasterEggs bool) *Titles {
	return &Titles{eggs: showEasterEggs, roll: rand.Float64}
}

func (t *Titles) decorate(title string) string {
	if !t.eggs || t.roll() >= easterEggChance {
		return title
	}
	return title + lo.Sample(easterEggs)
}

// Artists is the title of the artist index.
func (t *Titles) Artists() string {
	return t.decorate("Artists")
}

// Albums is the title of an artist's album list.
func (t *Titles) Albums(artist string) string {
	return t.decorate("Albums for " + artist)
}

// Songs is the title of an album's song list.
func (t *Titles) Songs(album string) string {
	return t.decorate("Songs in " + album)
}

// Search is the title of a result listing.
func (t *Titles) Search(query string, count int) string {
	return t.decorate(fmt.Sprintf("Search: %s (%d results)", query, count))
}
