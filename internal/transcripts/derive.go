package transcripts

import (
	"math/rand"
	"strings"
	"time"
)

// tagVocabulary is the fixed set of business terms transcripts are tagged
// with, in priority order.
var tagVocabulary = []string{
	"scaling",
	"strategy",
	"product",
	"marketing",
	"sales",
	"funding",
	"team",
	"leadership",
	"innovation",
	"growth",
	"operations",
	"technology",
}

// DeriveTitle builds a transcript title from the problem statement: the
// first six words, truncated to 50 characters with an ellipsis if longer.
func DeriveTitle(consultation string) string {
	words := strings.Split(consultation, " ")
	if len(words) > 6 {
		words = words[:6]
	}
	title := strings.Join(words, " ")
	if len(title) > 50 {
		return title[:47] + "..."
	}
	return title
}

// DeriveSummary takes the first three sentences of the content, split on "."
// and rejoined. When three full sentences were taken the trailing period is
// restored.
func DeriveSummary(content string) string {
	sentences := strings.Split(content, ".")
	n := len(sentences)
	if n > 3 {
		n = 3
	}
	summary := strings.Join(sentences[:n], ".")
	if n == 3 {
		summary += "."
	}
	return summary
}

// DeriveTags returns up to three vocabulary terms found (case-insensitive
// substring match) in the problem statement and content combined, in
// vocabulary order.
func DeriveTags(consultation, content string) []string {
	text := strings.ToLower(consultation + " " + content)
	tags := []string{}
	for _, term := range tagVocabulary {
		if strings.Contains(text, term) {
			tags = append(tags, term)
			if len(tags) == 3 {
				break
			}
		}
	}
	return tags
}

// FromChatSession builds a text transcript from a finished chat session.
// The message count is the number of blank-line-separated blocks in the
// flattened conversation.
func FromChatSession(sessionID, founderID, consultation, content string, createdAt time.Time) Transcript {
	return Transcript{
		ID:           sessionID,
		Kind:         KindText,
		Founder:      founderID,
		Title:        DeriveTitle(consultation),
		Content:      content,
		Summary:      DeriveSummary(content),
		MessageCount: len(strings.Split(content, "\n\n")),
		CreatedAt:    createdAt,
		Tags:         DeriveTags(consultation, content),
	}
}

// FromVoiceCall builds a voice transcript from a completed call. The
// original platform did not receive call durations from the telephony
// provider, so a plausible one is drawn from the injected source.
func FromVoiceCall(callID, founderID, consultation, content string, createdAt time.Time, rng *rand.Rand) Transcript {
	return Transcript{
		ID:        callID,
		Kind:      KindVoice,
		Founder:   founderID,
		Title:     DeriveTitle(consultation),
		Content:   content,
		Summary:   DeriveSummary(content),
		Duration:  rng.Intn(1200) + 300,
		CreatedAt: createdAt,
		Tags:      DeriveTags(consultation, content),
	}
}
