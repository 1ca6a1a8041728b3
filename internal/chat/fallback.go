package chat

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Per-founder advice tables for the offline fallback path. Unknown founders
// get the default entries.
var personalities = map[string]string{
	"bill-gates":      "Focus on systematic thinking, scalability, and long-term impact. Reference Microsoft's growth strategies and philanthropic approaches.",
	"elon-musk":       "Emphasize first principles thinking, rapid iteration, and ambitious goals. Reference Tesla and SpaceX methodologies.",
	"steve-jobs":      "Focus on user experience, design thinking, and product excellence. Reference Apple's product development philosophy.",
	"jeff-bezos":      "Emphasize customer obsession, long-term thinking, and operational excellence. Reference Amazon's principles.",
	"mark-zuckerberg": "Focus on connecting people, rapid scaling, and data-driven decisions. Reference Facebook's growth strategies.",
	"larry-page":      "Emphasize organizing information, technical innovation, and moonshot thinking. Reference Google's approach.",
}

var strategicAdvice = map[string]string{
	"bill-gates":      "Start with a clear problem definition and build systematic solutions that can scale globally.",
	"elon-musk":       "Question every assumption and rebuild from first principles - don't accept 'that's how it's always been done.'",
	"steve-jobs":      "Focus obsessively on the user experience and eliminate everything that doesn't serve that goal.",
	"jeff-bezos":      "Put the customer at the center of every decision and work backwards from their needs.",
	"mark-zuckerberg": "Move fast, test quickly, and let data guide your decisions while maintaining your core mission.",
	"larry-page":      "Think about how to organize and access information more effectively - that's where breakthrough value lies.",
}

var executionAdvice = map[string]string{
	"bill-gates":      "Build strong partnerships and focus on creating platforms that others can build upon.",
	"elon-musk":       "Set impossible deadlines and figure out how to achieve them - constraints breed creativity.",
	"steve-jobs":      "Say no to 1000 good ideas to focus on the few that can be truly great.",
	"jeff-bezos":      "Maintain high standards and be willing to be misunderstood for long periods.",
	"mark-zuckerberg": "Build fast, measure everything, and be ready to pivot based on what you learn.",
	"larry-page":      "Hire the smartest people and give them the resources to solve big problems.",
}

var visionAdvice = map[string]string{
	"bill-gates":      "Think about the positive impact you can have on the world and build towards that future.",
	"elon-musk":       "Set goals that seem impossible - if you're not failing sometimes, you're not pushing hard enough.",
	"steve-jobs":      "Create products that people don't know they need yet but can't live without once they have them.",
	"jeff-bezos":      "Build for the long term and be patient with growth while maintaining urgency in execution.",
	"mark-zuckerberg": "Focus on connecting people and communities - technology should bring us closer together.",
	"larry-page":      "Organize the world's information and make it universally accessible and useful.",
}

func adviceFor(table map[string]string, founderID, fallback string) string {
	if v, ok := table[founderID]; ok {
		return v
	}
	return fallback
}

// Generator synthesizes advisor responses locally when the backend is
// entirely unreachable. The delay and random source are injected so tests
// can assert deterministic output.
type Generator struct {
	rng   *rand.Rand
	sleep func(time.Duration)
}

// NewGenerator creates a production generator with a time-seeded source and
// a real sleep emulating network latency.
func NewGenerator() *Generator {
	return NewGeneratorWith(rand.New(rand.NewSource(time.Now().UnixNano())), time.Sleep)
}

// NewGeneratorWith creates a generator with explicit rand and sleep sources.
func NewGeneratorWith(rng *rand.Rand, sleep func(time.Duration)) *Generator {
	return &Generator{rng: rng, sleep: sleep}
}

// Generate produces a founder-styled response to the last message in the
// conversation: a personality line followed by the three fixed advice
// categories. An artificial 1000-3000ms delay emulates the round trip.
func (g *Generator) Generate(messages []Message, founderID string, fileCount int) string {
	g.sleep(time.Duration(1000+g.rng.Intn(2000)) * time.Millisecond)

	lastMessage := ""
	if len(messages) > 0 {
		lastMessage = messages[len(messages)-1].Content
	}
	if len(lastMessage) > 50 {
		lastMessage = lastMessage[:50]
	}

	personality := adviceFor(personalities, founderID, "Let me share my thoughts on this.")

	var sb strings.Builder
	fmt.Fprintf(&sb, "That's an interesting perspective on \"%s...\". %s\n\n", lastMessage, personality)
	sb.WriteString("Based on my experience, I'd recommend focusing on three key areas:\n\n")
	fmt.Fprintf(&sb, "1. **Strategic Foundation**: %s\n", adviceFor(strategicAdvice, founderID, "Focus on solving real problems with sustainable solutions."))
	fmt.Fprintf(&sb, "2. **Execution Approach**: %s\n", adviceFor(executionAdvice, founderID, "Execute with discipline while remaining adaptable to change."))
	fmt.Fprintf(&sb, "3. **Long-term Vision**: %s\n", adviceFor(visionAdvice, founderID, "Build something that will matter in 10 years, not just today."))

	if fileCount > 0 {
		fmt.Fprintf(&sb, "\nI notice you've shared %d documents - while I can't review them directly in this format, I'd suggest we discuss the key metrics or challenges highlighted in those materials.\n", fileCount)
	}

	sb.WriteString("\nWhat specific aspect of this approach resonates most with your current situation?")
	return sb.String()
}
