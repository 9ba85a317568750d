package text

import (
	"context"
	"hash/fnv"
	"strings"
)

//
// HashEncoder is a deterministic, dependency-free encoder: each token
// of the cleaned, lower-cased text is hashed into one of Width buckets
// and the resulting count vector is scaled to unit length.
// it has no semantic knowledge - identical texts score 1.0 and token
// overlap drives everything else - which makes it useful for tests and
// for offline development when no encoder sidecar is running.
//
type HashEncoder struct{}

func (HashEncoder) Embed(_ context.Context, texts []string) ([][]float32, error) {

	vecs := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, Width)
		for _, tok := range strings.Fields(strings.ToLower(Clean(t))) {
			tok = strings.Trim(tok, ".,;:!?\"'()[]")
			if tok == "" {
				continue
			}
			h := fnv.New32a()
			h.Write([]byte(tok))
			v[h.Sum32()%Width]++
		}
		normalize(v)
		vecs[i] = v
	}

	return vecs, nil
}
