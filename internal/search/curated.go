package search

// curated is a small default symbol list for quick UI choices.
var curated = map[string]string{
	"AAPL": "Apple Inc.",
	"MSFT": "Microsoft Corporation",
	"GOOG": "Alphabet Inc.",
	"AMZN": "Amazon.com, Inc.",
	"TSLA": "Tesla, Inc.",
	"NVDA": "NVIDIA Corporation",
	"NFLX": "Netflix, Inc.",
}

// Curated returns the curated symbol-to-name map.
func Curated() map[string]string {
	out := make(map[string]string, len(curated))
	for symbol, name := range curated {
		out[symbol] = name
	}
	return out
}
