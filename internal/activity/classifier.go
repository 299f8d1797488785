package activity

import (
	"strings"

	"github.com/dinerozz/productivity-tracker-backend/internal/entity"
)

type categoryRule struct {
	category entity.Category
	domains  []string
}

// categoryRules is evaluated top to bottom and the first match wins, so the order
// decides ambiguous domains and must not change.
var categoryRules = []categoryRule{
	{entity.CategorySocialMedia, []string{"facebook.com", "twitter.com", "instagram.com", "linkedin.com", "tiktok.com"}},
	{entity.CategoryEntertainment, []string{"youtube.com", "netflix.com", "twitch.tv", "reddit.com"}},
	{entity.CategoryNews, []string{"cnn.com", "bbc.com", "nytimes.com", "reuters.com"}},
	{entity.CategoryWork, []string{"github.com", "stackoverflow.com", "docs.google.com", "slack.com"}},
	{entity.CategoryShopping, []string{"amazon.com", "ebay.com", "etsy.com", "shopify.com"}},
	{entity.CategoryEducation, []string{"coursera.org", "udemy.com", "khanacademy.org", "edx.org", "wikipedia.org"}},
	{entity.CategoryHealth, []string{"webmd.com", "mayoclinic.org", "healthline.com"}},
	{entity.CategoryFinance, []string{"bloomberg.com", "paypal.com", "coinbase.com", "finance.yahoo.com"}},
}

// Classify maps a domain to a category by substring containment.
func Classify(domain string) entity.Category {
	d := NormalizeDomain(domain)
	for _, rule := range categoryRules {
		for _, candidate := range rule.domains {
			if strings.Contains(d, candidate) {
				return rule.category
			}
		}
	}
	return entity.CategoryOther
}

func categoryKey(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", ""))
}

// ParseCategory matches a client label ignoring case and spaces. Unknown labels fold
// into Other, the same way the summary breakdown treats them.
func ParseCategory(label string) entity.Category {
	key := categoryKey(label)
	for _, c := range entity.Categories {
		if categoryKey(string(c)) == key {
			return c
		}
	}
	return entity.CategoryOther
}

func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}
