package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// RequiredImages is the number of image URLs a new product carries: the
// cover first, then two gallery images.
const RequiredImages = 3

// ProductInput is the create payload sent to the backend.
type ProductInput struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Type        string                 `json:"type"`
	Platform    string                 `json:"platform"`
	Category    string                 `json:"category"`
	Price       decimal.Decimal        `json:"price"`
	Stock       int                    `json:"stock"`
	Images      []string               `json:"images"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// Normalize trims free-text fields and upper-cases the tags.
func (in ProductInput) Normalize() ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Type = strings.ToUpper(strings.TrimSpace(in.Type))
	in.Platform = strings.ToUpper(strings.TrimSpace(in.Platform))
	images := make([]string, 0, len(in.Images))
	for _, u := range in.Images {
		images = append(images, strings.TrimSpace(u))
	}
	in.Images = images
	return in
}

func (in ProductInput) Validate() error {
	var errs []error
	if in.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if !domain.IsProductType(in.Type) {
		errs = append(errs, fmt.Errorf("unknown type %q", in.Type))
	}
	if !domain.IsPlatform(in.Platform) {
		errs = append(errs, fmt.Errorf("unknown platform %q", in.Platform))
	}
	if in.Price.IsNegative() {
		errs = append(errs, errors.New("price must not be negative"))
	}
	if in.Stock < 0 {
		errs = append(errs, errors.New("stock must not be negative"))
	}
	if len(in.Images) != RequiredImages {
		errs = append(errs, fmt.Errorf("exactly %d image urls are required (cover first)", RequiredImages))
	}
	for _, u := range in.Images {
		if !IsImageURL(u) {
			errs = append(errs, fmt.Errorf("invalid image url %q", u))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string                `json:"name,omitempty"`
	Description *string                `json:"description,omitempty"`
	Type        *string                `json:"type,omitempty"`
	Platform    *string                `json:"platform,omitempty"`
	Category    *string                `json:"category,omitempty"`
	Price       *decimal.Decimal       `json:"price,omitempty"`
	Stock       *int                   `json:"stock,omitempty"`
	Images      []string               `json:"images,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

func (p ProductPatch) Validate() error {
	var errs []error
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if p.Type != nil && !domain.IsProductType(*p.Type) {
		errs = append(errs, fmt.Errorf("unknown type %q", *p.Type))
	}
	if p.Platform != nil && !domain.IsPlatform(*p.Platform) {
		errs = append(errs, fmt.Errorf("unknown platform %q", *p.Platform))
	}
	if p.Price != nil && p.Price.IsNegative() {
		errs = append(errs, errors.New("price must not be negative"))
	}
	if p.Stock != nil && *p.Stock < 0 {
		errs = append(errs, errors.New("stock must not be negative"))
	}
	for _, u := range p.Images {
		if !IsImageURL(u) {
			errs = append(errs, fmt.Errorf("invalid image url %q", u))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalid, errors.Join(errs...))
	}
	return nil
}

// IsImageURL reports whether u is an absolute http(s) URL.
func IsImageURL(u string) bool {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
