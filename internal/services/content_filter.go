package services

import (
	"regexp"
	"sync"
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch",
	"scam", "scammer", "fraud", "phishing", "malware",
	"porn", "porno", "nude", "nudes",
}

// ContentFilter screens free-text fields (rating comments, report details)
// before they reach the moderation queue.
type ContentFilter struct {
	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	emailPattern        *regexp.Regexp
	phonePattern        *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	compiled            bool
	mu                  sync.RWMutex
}

func NewContentFilter() *ContentFilter {
	f := &ContentFilter{}
	f.compilePatterns()
	return f
}

func (f *ContentFilter) compilePatterns() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.compiled {
		return
	}

	f.bannedWordRegexps = make([]*regexp.Regexp, 0, len(BannedWords))
	for _, word := range BannedWords {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		re, err := regexp.Compile(pattern)
		if err == nil {
			f.bannedWordRegexps = append(f.bannedWordRegexps, re)
		}
	}

	f.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	f.emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	f.phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	f.repeatedCharPattern = regexp.MustCompile(`(?i)(a{5,}|b{5,}|c{5,}|d{5,}|e{5,}|f{5,}|g{5,}|h{5,}|i{5,}|j{5,}|k{5,}|l{5,}|m{5,}|n{5,}|o{5,}|p{5,}|q{5,}|r{5,}|s{5,}|t{5,}|u{5,}|v{5,}|w{5,}|x{5,}|y{5,}|z{5,}|!{4,}|\?{4,}|\.{4,})`)
	f.compiled = true
}

// Check returns false with a reason code when the text violates content
// rules; empty text always passes.
func (f *ContentFilter) Check(text string) (bool, string) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if text == "" {
		return true, ""
	}
	for _, re := range f.bannedWordRegexps {
		if re.MatchString(text) {
			return false, "inappropriate_language"
		}
	}
	if f.urlPattern.MatchString(text) {
		return false, "url_not_allowed"
	}
	if f.emailPattern.MatchString(text) || f.phonePattern.MatchString(text) {
		return false, "contact_info_not_allowed"
	}
	if f.repeatedCharPattern.MatchString(text) {
		return false, "spam_detected"
	}
	return true, ""
}

func (f *ContentFilter) Message(reason string) string {
	messages := map[string]string{
		"inappropriate_language":   "Text contains inappropriate language.",
		"url_not_allowed":          "URLs and web links are not allowed.",
		"contact_info_not_allowed": "Contact information is not allowed.",
		"spam_detected":            "Text appears to be spam.",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "Text does not meet our content guidelines."
}
