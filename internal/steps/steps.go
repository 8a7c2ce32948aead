// Package steps defines the thinking-timeline step records and loads them
// from YAML datasets.
package steps

import "fmt"

// Kind identifies the variant of a step.
type Kind string

const (
	KindStartThinking Kind = "start-thinking"
	KindEnd           Kind = "end"
	KindPlaintext     Kind = "plaintext"
	KindSearch        Kind = "search"
)

// WebsiteKind distinguishes a search-engine query from a visited page.
type WebsiteKind string

const (
	// WebsiteSearch is a query sent to a search engine. It has no URL.
	WebsiteSearch WebsiteKind = "web-search"
	// WebsiteBrowsed is a specific page that was opened.
	WebsiteBrowsed WebsiteKind = "browsed-website"
)

// Website is one entry of a search step.
type Website struct {
	Kind       WebsiteKind `yaml:"kind" json:"kind"`
	Title      string      `yaml:"title" json:"title"`
	URL        string      `yaml:"url,omitempty" json:"url,omitempty"`
	FaviconURL string      `yaml:"favicon_url,omitempty" json:"favicon_url,omitempty"`
}

// Step is one entry of the timeline. Only the fields belonging to Kind are
// meaningful: Title and Content for plaintext, Title and Websites for search.
type Step struct {
	Kind     Kind      `yaml:"kind" json:"kind"`
	Title    string    `yaml:"title,omitempty" json:"title,omitempty"`
	Content  string    `yaml:"content,omitempty" json:"content,omitempty"`
	Websites []Website `yaml:"websites,omitempty" json:"websites,omitempty"`
}

// StartThinking returns a start marker step.
func StartThinking() Step { return Step{Kind: KindStartThinking} }

// End returns an end marker step.
func End() Step { return Step{Kind: KindEnd} }

// Plaintext returns a reasoning text step.
func Plaintext(title, content string) Step {
	return Step{Kind: KindPlaintext, Title: title, Content: content}
}

// Search returns a web search step.
func Search(title string, websites ...Website) Step {
	return Step{Kind: KindSearch, Title: title, Websites: websites}
}

// IsPlaintext reports whether the step carries revealable text.
func (s Step) IsPlaintext() bool { return s.Kind == KindPlaintext }

// Label returns a short human-readable name for the step.
func (s Step) Label() string {
	switch s.Kind {
	case KindStartThinking:
		return "Thinking"
	case KindEnd:
		return "Done"
	default:
		if s.Title != "" {
			return s.Title
		}
		return string(s.Kind)
	}
}

func (s Step) validate() error {
	switch s.Kind {
	case KindStartThinking, KindEnd, KindPlaintext:
		return nil
	case KindSearch:
		for i, w := range s.Websites {
			switch w.Kind {
			case WebsiteSearch:
				if w.URL != "" || w.FaviconURL != "" {
					return fmt.Errorf("website %d: web-search entries cannot carry a url", i)
				}
			case WebsiteBrowsed:
			default:
				return fmt.Errorf("website %d: unknown kind %q", i, w.Kind)
			}
		}
		return nil
	case "":
		return fmt.Errorf("missing kind")
	default:
		return fmt.Errorf("unknown kind %q", s.Kind)
	}
}
