package transcripts

import (
	"fmt"
	"regexp"
	"strings"

	"counsel/internal/founders"
)

const exportFooter = "Generated by Founder Counsel - Strategic AI Consultation Platform"

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// Export renders the plain-text download artifact for a transcript. The
// layout is fixed: existing exported files depend on it byte for byte.
func Export(t Transcript) string {
	var sb strings.Builder

	sb.WriteString("FOUNDER COUNSEL CONSULTATION TRANSCRIPT\n")
	sb.WriteString("=====================================\n\n")

	fmt.Fprintf(&sb, "Advisor: %s\n", founders.Name(t.Founder))
	fmt.Fprintf(&sb, "Type: %s\n", kindLabel(t.Kind))
	fmt.Fprintf(&sb, "Date: %s\n", t.CreatedAt.Format("1/2/2006"))
	if t.Duration > 0 {
		fmt.Fprintf(&sb, "Duration: %s\n", FormatDuration(t.Duration))
	} else {
		fmt.Fprintf(&sb, "Messages: %d\n", t.MessageCount)
	}

	sb.WriteString("\nSUMMARY\n-------\n")
	sb.WriteString(t.Summary)
	sb.WriteString("\n\nFULL TRANSCRIPT\n--------------\n")
	sb.WriteString(t.Content)
	sb.WriteString("\n\nTags: ")
	sb.WriteString(strings.Join(t.Tags, ", "))
	sb.WriteString("\n")
	sb.WriteString(exportFooter)

	return sb.String()
}

// ExportFilename derives the download filename from the transcript title,
// replacing every non-alphanumeric character with an underscore.
func ExportFilename(t Transcript) string {
	return nonAlphanumeric.ReplaceAllString(t.Title, "_") + "_transcript.txt"
}

// FormatDuration renders seconds as m:ss with zero-padded seconds.
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func kindLabel(k Kind) string {
	if k == KindVoice {
		return "Voice Call"
	}
	return "Text Conversation"
}
