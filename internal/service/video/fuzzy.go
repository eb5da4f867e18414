package service

import (
	"slices"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/avoronin/clipcast/internal/models"
)

/*
 * Code provided here was mostly taken from github.com/lithammer/fuzzysearch/fuzzy
 * It was not public for external use, so I copied and customised it.
 */

var (
	normalizeTransformer transform.Transformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	transformer                                = transform.Chain(normalizeTransformer, unicodeFoldTransformer{})
)

type videoRank struct {
	video models.VideoRecord
	rank  int
}

func rankCmp(vr1, vr2 videoRank) int {
	return vr1.rank - vr2.rank
}

// filterRank returns records with their Levenshtein distance
// to the wanted name. The returned slice is sorted by rank
// ascending order.
func filterRank(videos []models.VideoRecord, filter models.VideoFilter) []videoRank {
	out := make([]videoRank, 0, len(videos))

	target := stringTransform(filter.Name)

	for _, video := range videos {
		out = append(out, videoRank{
			video: video,
			rank:  fuzzy.LevenshteinDistance(stringTransform(video.OriginalName), target),
		})
	}

	// sort slice
	slices.SortFunc(out, rankCmp)

	return out
}

func stringTransform(s string) (transformed string) {
	var err error
	transformed, _, err = transform.String(transformer, s)
	if err != nil {
		transformed = s
	}

	return
}

type unicodeFoldTransformer struct{ transform.NopResetter }

func (unicodeFoldTransformer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	// Converting src to a string allocates.
	// In theory, it need not; see https://go.dev/issue/27148.
	// It is possible to write this loop using utf8.DecodeRune
	// and thereby avoid allocations, but it is noticeably slower.
	// So just let's wait for the compiler to get smarter.
	for _, r := range string(src) {
		if r == utf8.RuneError {
			// Go spec for ranging over a string says:
			// If the iteration encounters an invalid UTF-8 sequence,
			// the second value will be 0xFFFD, the Unicode replacement character,
			// and the next iteration will advance a single byte in the string.
			nSrc++
		} else {
			nSrc += utf8.RuneLen(r)
		}
		r = unicode.ToLower(r)
		x := utf8.RuneLen(r)
		if x > len(dst[nDst:]) {
			err = transform.ErrShortDst
			break
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
	}
	return nDst, nSrc, err
}
