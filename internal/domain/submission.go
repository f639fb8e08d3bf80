package domain

import (
	"errors"
	"net/mail"
	"slices"
	"strings"
)

// Submission is a new listing proposed through the create form. List fields
// are sent as comma-separated text, matching the form encoding.
type Submission struct {
	Name              string   `yaml:"name"`
	CreatedBy         string   `yaml:"createdBy"`
	WebsiteURL        string   `yaml:"websiteUrl"`
	ContactEmail      string   `yaml:"contactEmail"`
	AccessModel       string   `yaml:"accessModel"`
	PricingModel      string   `yaml:"pricingModel"`
	Category          string   `yaml:"category"`
	Industry          string   `yaml:"industry"`
	Tagline           string   `yaml:"tagline"`
	Description       string   `yaml:"description"`
	KeyFeatures       []string `yaml:"keyFeatures"`
	UseCases          []string `yaml:"useCases"`
	Tags              []string `yaml:"tags"`
	VideoURL          string   `yaml:"videoUrl"`
	Price             string   `yaml:"price"`
	IndividualPlan    string   `yaml:"individualPlan"`
	EnterprisePlan    string   `yaml:"enterprisePlan"`
	FreeTrial         bool     `yaml:"freeTrial"`
	SubscriptionModel string   `yaml:"subscriptionModel"`
	RefundPolicy      string   `yaml:"refundPolicy"`
	LogoPath          string   `yaml:"logo"`
	ThumbnailPath     string   `yaml:"thumbnail"`
}

// Validate checks the fields the backend requires.
func (s Submission) Validate() error {
	var errs []error
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if s.ContactEmail != "" {
		if _, err := mail.ParseAddress(s.ContactEmail); err != nil {
			errs = append(errs, errors.New("contactEmail is not a valid address"))
		}
	}
	if s.AccessModel != "" && !slices.Contains(FacetAccess.Options(), s.AccessModel) {
		errs = append(errs, errors.New("accessModel must be one of "+strings.Join(FacetAccess.Options(), ", ")))
	}
	if s.PricingModel != "" && !slices.Contains(FacetPricing.Options(), s.PricingModel) {
		errs = append(errs, errors.New("pricingModel must be one of "+strings.Join(FacetPricing.Options(), ", ")))
	}
	return errors.Join(errs...)
}

// FormFields returns the text fields in form order.
func (s Submission) FormFields() [][2]string {
	trial := "false"
	if s.FreeTrial {
		trial = "true"
	}
	return [][2]string{
		{"name", s.Name},
		{"createdBy", s.CreatedBy},
		{"websiteUrl", s.WebsiteURL},
		{"contactEmail", s.ContactEmail},
		{"accessModel", s.AccessModel},
		{"pricingModel", s.PricingModel},
		{"category", s.Category},
		{"industry", s.Industry},
		{"tagline", s.Tagline},
		{"description", s.Description},
		{"keyFeatures", strings.Join(s.KeyFeatures, ", ")},
		{"useCases", strings.Join(s.UseCases, ", ")},
		{"tags", strings.Join(s.Tags, ", ")},
		{"videoUrl", s.VideoURL},
		{"price", s.Price},
		{"individualPlan", s.IndividualPlan},
		{"enterprisePlan", s.EnterprisePlan},
		{"freeTrial", trial},
		{"subscriptionModel", s.SubscriptionModel},
		{"refundPolicy", s.RefundPolicy},
	}
}
