package checker

import (
	"fmt"
	"strings"

	"github.com/lukemcguire/linkprobe/result"
	"github.com/lukemcguire/linkprobe/urlutil"
)

// MatchRule selects how a link with a network-location is matched against
// the checked page.
type MatchRule int

const (
	// MatchContains treats a link as internal when the page's
	// network-location occurs anywhere in the link's network-location.
	MatchContains MatchRule = iota
	// MatchHost treats a link as internal only when its hostname equals the
	// page's hostname or is a subdomain of it.
	MatchHost
)

// CleanLinks drops empty hrefs and same-page fragment anchors ("#...") and
// removes duplicates, keeping the first occurrence of each link.
func CleanLinks(links []string) []string {
	seen := make(map[string]bool, len(links))
	cleaned := make([]string, 0, len(links))
	for _, link := range links {
		if link == "" || strings.HasPrefix(link, "#") || seen[link] {
			continue
		}
		seen[link] = true
		cleaned = append(cleaned, link)
	}
	return cleaned
}

// Classify cleans links and splits them into internal and external sets
// relative to pageURL. Links without a network-location are always internal.
func Classify(links []string, pageURL string, rule MatchRule) (result.ClassifiedLinks, error) {
	origin, err := urlutil.ParseTarget(pageURL)
	if err != nil {
		return result.ClassifiedLinks{}, fmt.Errorf("classify links: %w", err)
	}
	originNetLoc := urlutil.NetLoc(origin.String())
	originHost := origin.Hostname()

	classified := result.ClassifiedLinks{
		Internal: []string{},
		External: []string{},
	}
	for _, link := range CleanLinks(links) {
		var internal bool
		switch rule {
		case MatchHost:
			internal = urlutil.IsSameHost(link, originHost)
		default:
			internal = urlutil.IsInternal(link, originNetLoc)
		}

		if internal {
			classified.Internal = append(classified.Internal, link)
		} else {
			classified.External = append(classified.External, link)
		}
	}
	return classified, nil
}
