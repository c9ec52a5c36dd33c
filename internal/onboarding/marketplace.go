package onboarding

import "strings"

// Marketplace is a supplier platform the product link can come from.
type Marketplace string

const (
	MarketplaceAliExpress Marketplace = "aliexpress"
	MarketplaceAlibaba    Marketplace = "alibaba"
	MarketplaceAmazon     Marketplace = "amazon"
)

// recognisedMarketplaces is the closed set of domain fragments accepted at
// step 1. "amazon." covers every regional Amazon storefront.
var recognisedMarketplaces = []struct {
	fragment    string
	marketplace Marketplace
}{
	{"aliexpress.com", MarketplaceAliExpress},
	{"alibaba.com", MarketplaceAlibaba},
	{"amazon.", MarketplaceAmazon},
}

// DetectMarketplace reports which recognised marketplace a link belongs to.
func DetectMarketplace(link string) (Marketplace, bool) {
	link = strings.TrimSpace(link)
	if link == "" {
		return "", false
	}
	for _, m := range recognisedMarketplaces {
		if strings.Contains(link, m.fragment) {
			return m.marketplace, true
		}
	}
	return "", false
}

// ValidProductLink is the step 1 predicate.
func ValidProductLink(link string) bool {
	_, ok := DetectMarketplace(link)
	return ok
}
