package service

import (
	"regexp"
	"strings"

	"github.com/vanshika/rxnpath/internal/domain"
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	compoundPrefix  = regexp.MustCompile(`(?i)^chebi:\s*`)
	enzymePrefix    = regexp.MustCompile(`(?i)^ec[:\s]*`)
	reactionPrefix  = regexp.MustCompile(`(?i)^rhea:\s*`)
)

// normalizeCompound accepts "CHEBI:15377", "chebi: 15377" and "15377" alike.
// The open token is folded to its canonical spelling.
func normalizeCompound(id string) string {
	id = sanitizeString(id)
	if strings.EqualFold(id, domain.AnyCompound) {
		return domain.AnyCompound
	}
	return compoundPrefix.ReplaceAllString(id, "")
}

// normalizeEnzyme strips an "EC" prefix from an EC number.
func normalizeEnzyme(ec string) string {
	return enzymePrefix.ReplaceAllString(sanitizeString(ec), "")
}

func normalizeReaction(id string) string {
	return reactionPrefix.ReplaceAllString(sanitizeString(id), "")
}

// normalizeRequest cleans every identifier in place. Compounds keep their
// order and repeats since the chain is positional. Enzymes and forbidden
// links are deduplicated, first occurrence wins.
func normalizeRequest(req SearchRequest) SearchRequest {
	out := SearchRequest{MaxResults: req.MaxResults}
	for _, c := range req.Compounds {
		out.Compounds = append(out.Compounds, normalizeCompound(c))
	}
	out.Enzymes = dedupe(req.Enzymes, normalizeEnzyme)
	out.ForbiddenLinks = dedupe(req.ForbiddenLinks, normalizeCompound)
	return out
}

func dedupe(values []string, norm func(string) string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(domain.IDSet, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = norm(v)
		if v == "" || seen.Has(v) {
			continue
		}
		seen.Add(v)
		out = append(out, v)
	}
	return out
}

// sanitizeString collapses whitespace and trims the result.
func sanitizeString(value string) string {
	value = whitespaceRegex.ReplaceAllString(value, " ")
	return strings.TrimSpace(value)
}
