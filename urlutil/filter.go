package urlutil

import (
	"net/url"
	"strings"
)

// NetLoc returns the network-location of rawURL: "[userinfo@]host[:port]".
// It is empty for path-relative, root-relative, fragment and opaque
// (mailto:, javascript:) references. URLs that net/url rejects are split
// lexically so that every href yields an answer.
//
// Leading control characters and spaces are ignored, as are tabs and line
// breaks anywhere in the value, the way browsers read an href.
func NetLoc(rawURL string) string {
	rawURL = trimHref(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return splitNetLoc(rawURL)
	}
	if parsed.User != nil {
		return parsed.User.String() + "@" + parsed.Host
	}
	return parsed.Host
}

var hrefNoise = strings.NewReplacer("\t", "", "\n", "", "\r", "")

// trimHref drops leading C0 controls and spaces and removes embedded tabs
// and line breaks.
func trimHref(raw string) string {
	raw = strings.TrimLeftFunc(raw, func(r rune) bool { return r <= ' ' })
	return hrefNoise.Replace(raw)
}

// splitNetLoc extracts the authority component without validating it.
func splitNetLoc(rawURL string) string {
	rest := rawURL
	if i := strings.Index(rest, ":"); i > 0 && isScheme(rest[:i]) {
		rest = rest[i+1:]
	}
	if !strings.HasPrefix(rest, "//") {
		return ""
	}
	rest = rest[2:]
	if i := strings.IndexAny(rest, "/?#"); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

func isScheme(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return s != ""
}

// IsInternal reports whether link belongs to the site whose network-location
// is originNetLoc. A link without a network-location is internal; otherwise
// it is internal when originNetLoc occurs anywhere inside the link's
// network-location. The containment test is deliberately loose: it accepts
// subdomains but also unrelated hosts such as notexample.com for example.com.
func IsInternal(link, originNetLoc string) bool {
	netloc := NetLoc(link)
	if netloc == "" {
		return true
	}
	return strings.Contains(netloc, originNetLoc)
}

// IsSameHost is the strict alternative to IsInternal. A link without a
// network-location is internal; otherwise its hostname must equal baseHost
// or be a subdomain of it (blog.example.com matches example.com).
func IsSameHost(link, baseHost string) bool {
	netloc := NetLoc(link)
	if netloc == "" {
		return true
	}

	host := netloc
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	if parsed, err := url.Parse("//" + host); err == nil {
		host = parsed.Hostname()
	}

	baseHost = strings.ToLower(baseHost)
	host = strings.ToLower(host)

	return host == baseHost || strings.HasSuffix(host, "."+baseHost)
}

// IsHTTPScheme returns true if the URL has an http or https scheme.
// Returns false for empty strings, non-HTTP schemes, or unparseable URLs.
func IsHTTPScheme(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}
