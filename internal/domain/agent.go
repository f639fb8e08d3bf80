package domain

import "strings"

// UncategorizedLabel is the group key for agents without a category.
const UncategorizedLabel = "Uncategorized"

// Agent is a marketplace listing as returned by the backend.
type Agent struct {
	ID                string   `json:"_id"`
	Name              string   `json:"name"`
	Logo              string   `json:"logo,omitempty"`
	Thumbnail         string   `json:"thumbnail,omitempty"`
	Tagline           string   `json:"tagline,omitempty"`
	ShortDescription  string   `json:"shortDescription,omitempty"`
	Description       string   `json:"description,omitempty"`
	Category          string   `json:"category,omitempty"`
	Industry          string   `json:"industry,omitempty"`
	AccessModel       string   `json:"accessModel,omitempty"`
	PricingModel      string   `json:"pricingModel,omitempty"`
	Price             string   `json:"price,omitempty"`
	Tags              []string `json:"tags,omitempty"`
	KeyFeatures       []string `json:"keyFeatures,omitempty"`
	UseCases          []string `json:"useCases,omitempty"`
	Likes             int      `json:"likes,omitempty"`
	SavedByCount      int      `json:"savedByCount,omitempty"`
	CreatedBy         string   `json:"createdBy,omitempty"`
	WebsiteURL        string   `json:"websiteUrl,omitempty"`
	ContactEmail      string   `json:"contactEmail,omitempty"`
	VideoURL          string   `json:"videoUrl,omitempty"`
	IndividualPlan    string   `json:"individualPlan,omitempty"`
	EnterprisePlan    string   `json:"enterprisePlan,omitempty"`
	FreeTrial         bool     `json:"freeTrial,omitempty"`
	SubscriptionModel string   `json:"subscriptionModel,omitempty"`
	RefundPolicy      string   `json:"refundPolicy,omitempty"`
	Status            Status   `json:"status,omitempty"`
	Instructions      string   `json:"instructions,omitempty"`
}

// LikeCount returns likes clamped to zero.
func (a Agent) LikeCount() int {
	if a.Likes < 0 {
		return 0
	}
	return a.Likes
}

// SaveCount returns savedByCount clamped to zero.
func (a Agent) SaveCount() int {
	if a.SavedByCount < 0 {
		return 0
	}
	return a.SavedByCount
}

// CategoryKey is the grouping key: the category, or UncategorizedLabel when blank.
func (a Agent) CategoryKey() string {
	if strings.TrimSpace(a.Category) == "" {
		return UncategorizedLabel
	}
	return a.Category
}

// LogoOr returns the logo URL, or placeholder when the agent has none.
func (a Agent) LogoOr(placeholder string) string {
	if a.Logo == "" {
		return placeholder
	}
	return a.Logo
}

// Summary returns the short description with the listing fallback text.
func (a Agent) Summary() string {
	if a.ShortDescription == "" {
		return "No description available."
	}
	return a.ShortDescription
}

// FacetValue returns the agent's value for a facet.
func (a Agent) FacetValue(f Facet) string {
	switch f {
	case FacetCategory:
		return a.Category
	case FacetIndustry:
		return a.Industry
	case FacetPricing:
		return a.PricingModel
	case FacetAccess:
		return a.AccessModel
	}
	return ""
}

// SimilarResult is the payload of the similar-agents endpoint.
type SimilarResult struct {
	Agent       Agent   `json:"agent"`
	BestMatches []Agent `json:"bestMatches"`
}
