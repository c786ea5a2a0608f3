package intent

import (
	"jarvis/internal/domain"
	"jarvis/internal/normalize"
)

// overlapThreshold is the minimum keyword-overlap score an intent must reach
// before the overlap pass accepts it.
const overlapThreshold = 0.25

// Resolver turns raw utterances into commands using a three-tier strategy:
// pattern match, then keyword-overlap scoring, then a strict required-keyword
// fallback. It never fails; the terminal fallback is the unknown sentinel.
type Resolver struct {
	catalog *Catalog
}

func NewResolver(catalog *Catalog) *Resolver {
	return &Resolver{catalog: catalog}
}

func (r *Resolver) Catalog() *Catalog { return r.catalog }

// Resolve maps one raw utterance to a command. Tie-breaks at every tier
// follow catalog order: the pattern pass takes the first intent with any
// matching pattern, the overlap pass takes the first intent holding the
// maximum score (strict greater-than scan), and the strict fallback takes
// the first qualifying intent.
func (r *Resolver) Resolve(raw string) domain.Command {
	if raw == "" {
		return unknownCommand(raw)
	}

	text := normalize.Text(raw)
	tokens := normalize.Tokens(text)

	// Pattern pass: precise wins for canonical phrasings.
	for _, spec := range r.catalog.specs {
		for _, pattern := range spec.patterns {
			if pattern.MatchString(text) {
				return domain.Command{Action: spec.Name, Params: ExtractParams(spec.Name, text, raw)}
			}
		}
	}

	// Overlap pass: graceful degradation for paraphrases.
	bestName := ""
	bestScore := 0.0
	for _, spec := range r.catalog.specs {
		if score := overlapScore(tokens, spec.Keywords); score > bestScore {
			bestName = spec.Name
			bestScore = score
		}
	}
	if bestScore >= overlapThreshold {
		return domain.Command{Action: bestName, Params: ExtractParams(bestName, text, raw)}
	}

	// Strict fallback: all of the first two keywords present.
	for _, spec := range r.catalog.specs {
		required := spec.Keywords
		if len(required) > 2 {
			required = required[:2]
		}
		if len(required) > 0 && containsAll(tokens, required) {
			return domain.Command{Action: spec.Name, Params: ExtractParams(spec.Name, text, raw)}
		}
	}

	return unknownCommand(raw)
}

func unknownCommand(raw string) domain.Command {
	return domain.Command{Action: domain.ActionUnknown, Params: map[string]any{"text": raw}}
}

// overlapScore is |tokens ∩ keywords| / |keywords|. An empty keyword set
// scores zero.
func overlapScore(tokens, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tokenSet[tok] = struct{}{}
	}
	seen := make(map[string]struct{}, len(keywords))
	overlap := 0
	unique := 0
	for _, kw := range keywords {
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		unique++
		if _, ok := tokenSet[kw]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(unique)
}

func containsAll(tokens, required []string) bool {
	tokenSet := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		tokenSet[tok] = struct{}{}
	}
	for _, kw := range required {
		if _, ok := tokenSet[kw]; !ok {
			return false
		}
	}
	return true
}
