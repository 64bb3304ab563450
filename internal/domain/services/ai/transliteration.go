package ai

import "regexp"

// transliterationRule lists phrase patterns for an Indian language typed in Latin script
type transliterationRule struct {
	lang     string
	patterns []*regexp.Regexp
	minMatch int
}

// Checked in this order; the first language reaching minMatch wins
var transliterationRules = []transliterationRule{
	{
		lang: "hi",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(kaise|kaisa|kya|hai|hoon|ho|aap|main|mein|tum|tumhe|uske|iska|use|inhe|unhe|kuch|baat|tha|the|hoon|hun|mere|tera|apka|uska|jisme|isliye|lekin|par|aur|isliye|bilkul|zyada)\b`),
			regexp.MustCompile(`[aeiou]ng\b`),
			regexp.MustCompile(`(?i)ch[a-z]+`),
			regexp.MustCompile(`(?i)sh[a-z]+`),
		},
		minMatch: 1,
	},
	{
		lang: "ta",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(naan|neenga|aandavan|enga|apdiye|apdilum|rendum|moonru|enna|ippadi|ille|aagum|vendam|irukkum)\b`),
		},
		minMatch: 1,
	},
	{
		lang: "te",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(nenu|meru|meeru|baaga|ledu|undi|raadu|vundi|antey|anthe|adi|okati)\b`),
		},
		minMatch: 1,
	},
	{
		lang: "bn",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(ami|tumi|apni|kemon|acho|nai|hobo|korbo|cholun|ekhane|amar|tomader)\b`),
		},
		minMatch: 1,
	},
	{
		lang: "gu",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(hu|tu|aapne|kyu|shu|ane|tane|nai|aaje|aama)\b`),
		},
		minMatch: 1,
	},
	{
		lang: "ml",
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(njan|nee|ninne|enne|aayirikkum|alla|ille|podo|aano|ayyo)\b`),
		},
		minMatch: 1,
	},
}

// DetectTransliteration reports an Indian language written phonetically in Latin script
func DetectTransliteration(text string) (string, bool) {
	for _, rule := range transliterationRules {
		matches := 0
		for _, p := range rule.patterns {
			matches += len(p.FindAllStringIndex(text, -1))
		}
		if matches >= rule.minMatch {
			return rule.lang, true
		}
	}
	return "", false
}
