package glyphing

import (
	"sync"

	"github.com/npillmayer/uax/grapheme"
	"github.com/npillmayer/uax/segment"
)

var graphemeClassesSetup sync.Once

// graphemeSplitter creates a segmenter which breaks text into grapheme
// clusters. Segmenters are not safe for concurrent use, so every layout
// gets its own.
func graphemeSplitter() *segment.Segmenter {
	graphemeClassesSetup.Do(grapheme.SetupGraphemeClasses)
	onGraphemes := grapheme.NewBreaker(1)
	return segment.NewSegmenter(onGraphemes)
}
