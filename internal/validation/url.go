// Package validation checks user-supplied links before any request is made
// for them.
package validation

import (
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// LinkValidator validates links typed at the prompt (feed URLs, playlist
// URLs) and normalizes them to absolute http(s) URLs.
type LinkValidator struct {
	// AllowLocal permits loopback, link-local and private addresses.
	AllowLocal bool
	MaxLength  int
}

// NewLinkValidator blocks local and private hosts.
func NewLinkValidator() *LinkValidator {
	return &LinkValidator{MaxLength: 2048}
}

// NewPermissiveLinkValidator allows local development servers.
func NewPermissiveLinkValidator() *LinkValidator {
	return &LinkValidator{AllowLocal: true, MaxLength: 2048}
}

// ValidateAndNormalize returns input as an absolute URL, adding https://
// when no scheme was typed.
func (v *LinkValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if v.MaxLength > 0 && len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}
	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	u, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("URL must use http or https protocol")
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}
	if !v.AllowLocal && isLocalHost(u.Hostname()) {
		return "", fmt.Errorf("local addresses are not permitted")
	}
	if strings.Contains(u.Path, "..") {
		return "", fmt.Errorf("directory traversal patterns not allowed in URL path")
	}
	if q := strings.ToLower(u.RawQuery); strings.Contains(q, "<script") || strings.Contains(q, "javascript:") {
		return "", fmt.Errorf("suspicious query parameters detected")
	}

	return u.String(), nil
}

// LooksLikeURL reports whether s was meant as a link rather than a bare id
// or name.
func LooksLikeURL(s string) bool {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return true
	}
	host, _, _ := strings.Cut(s, "/")
	return strings.Contains(host, ".") && !strings.ContainsAny(host, " \t")
}

func isLocalHost(hostname string) bool {
	hostname = strings.ToLower(hostname)
	if hostname == "localhost" || strings.HasSuffix(hostname, ".localhost") {
		return true
	}
	addr, err := netip.ParseAddr(hostname)
	if err != nil {
		return false
	}
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified() {
		return true
	}
	return net.IP(addr.AsSlice()).Equal(net.IPv4bcast)
}
