package jobtext

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// MaxMissingKeywords caps the missing keyword list.
const MaxMissingKeywords = 20

// stopWords filters common English words that add noise to keyword matching.
var stopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "join": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "new": true,
	"use": true, "using": true, "used": true, "well": true, "high": true,
	"good": true, "able": true, "get": true, "set": true, "such": true,
	"experience": true, "years": true, "strong": true, "including": true,
}

// Keywords tokenizes text into a lowercase keyword set of words with at least
// three characters, skipping stop words. '+', '#' and '.' count as word
// characters so "c++", "c#" and "node.js" survive.
func Keywords(text string) map[string]bool {
	kw := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len([]rune(w)) >= 3 && !stopWords[w] {
			kw[w] = true
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return kw
}

// MatchResult is the keyword overlap between a resume and a job description.
type MatchResult struct {
	Score    float64  `json:"score"`
	Matching []string `json:"matching"`
	Missing  []string `json:"missing"`
}

// Match computes the Jaccard overlap (0-100, one decimal) between the resume
// and job keyword sets. Matching and missing keywords are sorted; missing is
// capped at MaxMissingKeywords.
func Match(resumeText, jobText string) MatchResult {
	resumeKW := Keywords(resumeText)
	jobKW := Keywords(Normalize(jobText))

	res := MatchResult{Matching: []string{}, Missing: []string{}}
	inter := 0
	for kw := range resumeKW {
		if jobKW[kw] {
			inter++
			res.Matching = append(res.Matching, kw)
		}
	}
	for kw := range jobKW {
		if !resumeKW[kw] {
			res.Missing = append(res.Missing, kw)
		}
	}

	if union := len(resumeKW) + len(jobKW) - inter; union > 0 {
		raw := float64(inter) / float64(union) * 100
		res.Score = math.Round(raw*10) / 10
	}

	sort.Strings(res.Matching)
	sort.Strings(res.Missing)
	if len(res.Missing) > MaxMissingKeywords {
		res.Missing = res.Missing[:MaxMissingKeywords]
	}
	return res
}
