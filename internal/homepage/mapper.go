package homepage

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Link is one dashboard entry flattened for probing.
type Link struct {
	Category string
	Name     string
	Href     string
	Hostname string
}

// Mapper flattens a ServicesConfig into probe targets.
type Mapper struct{}

// NewMapper creates a new mapper instance
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapLinks returns every entry with a usable absolute URL, sorted by
// category then name. An empty result is an error.
func (m *Mapper) MapLinks(config ServicesConfig) ([]Link, error) {
	var links []Link

	for _, groupMap := range config {
		for category, servicesList := range groupMap {
			for _, serviceMap := range servicesList {
				for name, props := range serviceMap {
					if props.Href == "" {
						continue
					}

					parsed, err := url.Parse(props.Href)
					if err != nil {
						continue
					}
					hostname := parsed.Hostname()
					if hostname == "" {
						continue
					}

					links = append(links, Link{
						Category: category,
						Name:     name,
						Href:     props.Href,
						Hostname: hostname,
					})
				}
			}
		}
	}

	if len(links) == 0 {
		return nil, fmt.Errorf("no valid services found in homepage config")
	}

	sort.Slice(links, func(i, j int) bool {
		if links[i].Category != links[j].Category {
			return links[i].Category < links[j].Category
		}
		return strings.ToLower(links[i].Name) < strings.ToLower(links[j].Name)
	})
	return links, nil
}

// ServiceName extracts the first DNS label of a hostname.
// Example: "jellyfin.domain.ext" -> "jellyfin"
func ServiceName(hostname string) string {
	if i := strings.IndexByte(hostname, '.'); i > 0 {
		return hostname[:i]
	}
	return hostname
}
