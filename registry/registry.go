// Package registry holds the static display metadata for project categories,
// vibe-log types and profile statuses. It is pure data; every lookup falls
// back to a neutral entry so an unknown key never breaks rendering.
package registry

// Entry is the display metadata attached to a registry key.
type Entry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var categories = map[string]Entry{
	"saas":        {Key: "saas", Label: "SaaS", Color: "#2563EB", Icon: "cloud"},
	"devtools":    {Key: "devtools", Label: "Dev Tools", Color: "#7C3AED", Icon: "terminal"},
	"ai":          {Key: "ai", Label: "AI / ML", Color: "#DB2777", Icon: "sparkles"},
	"mobile":      {Key: "mobile", Label: "Mobile App", Color: "#059669", Icon: "smartphone"},
	"game":        {Key: "game", Label: "Game", Color: "#D97706", Icon: "gamepad"},
	"ecommerce":   {Key: "ecommerce", Label: "E-Commerce", Color: "#0891B2", Icon: "shopping-cart"},
	"community":   {Key: "community", Label: "Community", Color: "#4F46E5", Icon: "users"},
	"education":   {Key: "education", Label: "Education", Color: "#65A30D", Icon: "book"},
	"hardware":    {Key: "hardware", Label: "Hardware", Color: "#57534E", Icon: "cpu"},
	"fintech":     {Key: "fintech", Label: "Fintech", Color: "#0D9488", Icon: "banknote"},
	"health":      {Key: "health", Label: "Health", Color: "#DC2626", Icon: "heart-pulse"},
	"other":       {Key: "other", Label: "Other", Color: "#6B7280", Icon: "box"},
}

var vibeLogTypes = map[string]Entry{
	"update":   {Key: "update", Label: "Update", Color: "#2563EB", Icon: "pencil"},
	"feature":  {Key: "feature", Label: "New Feature", Color: "#7C3AED", Icon: "rocket"},
	"feedback": {Key: "feedback", Label: "Feedback Wanted", Color: "#D97706", Icon: "megaphone"},
	"aimagic":  {Key: "aimagic", Label: "AI Magic", Color: "#DB2777", Icon: "wand"},
	"launch":   {Key: "launch", Label: "Launch", Color: "#059669", Icon: "party-popper"},
	"idea":     {Key: "idea", Label: "Idea", Color: "#6B7280", Icon: "lightbulb"},
}

var profileStatuses = map[string]Entry{
	"brainstorming": {Key: "brainstorming", Label: "Brainstorming", Color: "#D97706", Icon: "cloud-lightning"},
	"building":      {Key: "building", Label: "Building", Color: "#2563EB", Icon: "hammer"},
	"launching":     {Key: "launching", Label: "Launching", Color: "#059669", Icon: "rocket"},
	"open_to_work":  {Key: "open_to_work", Label: "Open to Collaborate", Color: "#7C3AED", Icon: "handshake"},
}

var fallback = Entry{Key: "unknown", Label: "Unknown", Color: "#6B7280", Icon: "circle-help"}

func lookup(table map[string]Entry, key string) Entry {
	if e, ok := table[key]; ok {
		return e
	}
	return fallback
}

// Category returns the display entry for a project category key.
func Category(key string) Entry { return lookup(categories, key) }

// VibeLogType returns the display entry for a vibe-log type key.
func VibeLogType(key string) Entry { return lookup(vibeLogTypes, key) }

// ProfileStatus returns the display entry for a profile status key.
func ProfileStatus(key string) Entry { return lookup(profileStatuses, key) }

// ValidCategory reports whether key is a known project category.
func ValidCategory(key string) bool {
	_, ok := categories[key]
	return ok
}

// ValidVibeLogType reports whether key is a known vibe-log type.
func ValidVibeLogType(key string) bool {
	_, ok := vibeLogTypes[key]
	return ok
}

// ValidProfileStatus reports whether key is a known profile status.
func ValidProfileStatus(key string) bool {
	_, ok := profileStatuses[key]
	return ok
}
