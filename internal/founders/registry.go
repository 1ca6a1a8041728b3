package founders

// Founder describes one advisor persona. Catalog entries are immutable and
// defined at process start.
type Founder struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Company     string   `json:"company"`
	Expertise   []string `json:"expertise"`
	Era         string   `json:"era"`
	Description string   `json:"description"`
	Focus       string   `json:"focus"`
	Experience  string   `json:"experience"`
}

// Placeholder is returned for every lookup of an unknown founder id. All
// lookup sites share this record.
var Placeholder = Founder{
	ID:          "unknown",
	Name:        "Founder",
	Description: "Experienced entrepreneur and business leader",
	Focus:       "strategic thinking and execution",
	Experience:  "building and scaling companies",
}

var catalog = []Founder{
	{
		ID:          "bill-gates",
		Name:        "Bill Gates",
		Company:     "Microsoft",
		Expertise:   []string{"Software", "Scaling", "Philanthropy"},
		Era:         "1975-2008",
		Description: "Visionary who built the world's largest software company and revolutionized personal computing.",
		Focus:       "systematic thinking, scalability, and long-term impact",
		Experience:  "building Microsoft and global philanthropy",
	},
	{
		ID:          "elon-musk",
		Name:        "Elon Musk",
		Company:     "Tesla, SpaceX",
		Expertise:   []string{"Innovation", "Manufacturing", "Vision"},
		Era:         "1995-Present",
		Description: "Serial entrepreneur pushing the boundaries of electric vehicles, space exploration, and AI.",
		Focus:       "first principles thinking, rapid iteration, and ambitious goals",
		Experience:  "leading Tesla, SpaceX, and other breakthrough companies",
	},
	{
		ID:          "steve-jobs",
		Name:        "Steve Jobs",
		Company:     "Apple",
		Expertise:   []string{"Design", "Marketing", "Product"},
		Era:         "1976-2011",
		Description: "Master of product design and marketing who created some of the world's most beloved consumer products.",
		Focus:       "user experience, design thinking, and product excellence",
		Experience:  "creating revolutionary products at Apple",
	},
	{
		ID:          "jeff-bezos",
		Name:        "Jeff Bezos",
		Company:     "Amazon",
		Expertise:   []string{"E-commerce", "Logistics", "Customer Focus"},
		Era:         "1994-2021",
		Description: "Built the world's largest e-commerce platform with relentless focus on customer satisfaction.",
		Focus:       "customer obsession, long-term thinking, and operational excellence",
		Experience:  "building Amazon from startup to global platform",
	},
	{
		ID:          "mark-zuckerberg",
		Name:        "Mark Zuckerberg",
		Company:     "Meta (Facebook)",
		Expertise:   []string{"Social Media", "Growth", "Networking"},
		Era:         "2004-Present",
		Description: "Connected billions of people worldwide and pioneered the social media revolution.",
		Focus:       "connecting people, rapid scaling, and data-driven decisions",
		Experience:  "growing Facebook and building social platforms",
	},
	{
		ID:          "larry-page",
		Name:        "Larry Page",
		Company:     "Google",
		Expertise:   []string{"Search", "AI", "Information"},
		Era:         "1998-Present",
		Description: "Co-founded Google and organized the world's information to make it universally accessible.",
		Focus:       "organizing information, technical innovation, and moonshot thinking",
		Experience:  "co-founding Google and Alphabet",
	},
}

// recommendedIDs are the advisors offered by the consultation wizard.
var recommendedIDs = []string{"bill-gates", "elon-musk", "mark-zuckerberg"}

// Get looks up a founder by id, falling back to Placeholder for unknown ids.
func Get(id string) Founder {
	for _, f := range catalog {
		if f.ID == id {
			return f
		}
	}
	return Placeholder
}

// Name returns the display name for an id, using the placeholder name for
// unknown ids.
func Name(id string) string {
	return Get(id).Name
}

// All returns the full catalog in fixed order.
func All() []Founder {
	out := make([]Founder, len(catalog))
	copy(out, catalog)
	return out
}

// Recommended returns the subset of founders presented as wizard
// recommendations, in presentation order.
func Recommended() []Founder {
	out := make([]Founder, 0, len(recommendedIDs))
	for _, id := range recommendedIDs {
		out = append(out, Get(id))
	}
	return out
}
