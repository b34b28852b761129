package sentiment

import "strings"

// polarity maps lower-cased words to a score in [-1, 1]. The list leans
// toward financial-news vocabulary since the input is stock headlines.
var polarity = map[string]float64{
	"good":          0.7,
	"great":         0.8,
	"excellent":     1.0,
	"strong":        0.6,
	"positive":      0.7,
	"beat":          0.6,
	"beats":         0.6,
	"record":        0.5,
	"growth":        0.5,
	"gains":         0.6,
	"gain":          0.6,
	"rally":         0.6,
	"rallies":       0.6,
	"surge":         0.7,
	"surges":        0.7,
	"soar":          0.8,
	"soars":         0.8,
	"jump":          0.5,
	"jumps":         0.5,
	"rise":          0.4,
	"rises":         0.4,
	"up":            0.3,
	"upgrade":       0.6,
	"upgraded":      0.6,
	"outperform":    0.6,
	"bullish":       0.7,
	"profit":        0.5,
	"profits":       0.5,
	"win":           0.6,
	"wins":          0.6,
	"success":       0.7,
	"successful":    0.7,
	"boost":         0.5,
	"boosts":        0.5,
	"optimistic":    0.6,
	"bad":           -0.7,
	"terrible":      -1.0,
	"poor":          -0.6,
	"weak":          -0.6,
	"negative":      -0.7,
	"miss":          -0.6,
	"misses":        -0.6,
	"loss":          -0.6,
	"losses":        -0.6,
	"drop":          -0.5,
	"drops":         -0.5,
	"fall":          -0.5,
	"falls":         -0.5,
	"plunge":        -0.8,
	"plunges":       -0.8,
	"crash":         -0.9,
	"crashes":       -0.9,
	"tumble":        -0.7,
	"tumbles":       -0.7,
	"slump":         -0.6,
	"slumps":        -0.6,
	"down":          -0.3,
	"downgrade":     -0.6,
	"downgraded":    -0.6,
	"underperform":  -0.6,
	"bearish":       -0.7,
	"lawsuit":       -0.5,
	"fraud":         -0.9,
	"recall":        -0.5,
	"layoffs":       -0.6,
	"bankruptcy":    -0.9,
	"investigation": -0.5,
	"fears":         -0.6,
	"fear":          -0.6,
	"warns":         -0.5,
	"warning":       -0.5,
	"risk":          -0.4,
	"concern":       -0.4,
	"concerns":      -0.4,
	"pessimistic":   -0.6,
}

// negations flip the polarity of the following sentiment word.
var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "without": {},
}

// Score returns the average polarity of the sentiment-bearing words in
// text, in [-1, 1]. Text with no known words scores 0.
func Score(text string) float64 {
	words := strings.Fields(strings.ToLower(text))

	var sum float64
	var count int
	negate := false

	for _, word := range words {
		word = strings.Trim(word, ".,!?:;\"'()[]")
		if _, ok := negations[word]; ok {
			negate = true
			continue
		}

		score, ok := polarity[word]
		if ok {
			if negate {
				score = -score
			}
			sum += score
			count++
		}
		negate = false
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
