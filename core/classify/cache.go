package classify

import "github.com/huangsam/steward/schema"

// Cache memoizes classifications by domain for a single run.
// It is not safe for concurrent use; each repository analysis owns its own.
type Cache struct {
	classifier *Classifier
	byDomain   map[string]schema.DomainClassification
	hits       int
}

// NewCache returns an empty cache backed by the classifier.
func NewCache(c *Classifier) *Cache {
	return &Cache{classifier: c, byDomain: make(map[string]schema.DomainClassification)}
}

// Classify classifies an email address, consulting the cache first.
func (c *Cache) Classify(email string) schema.DomainClassification {
	domain, ok := ExtractDomain(email)
	if !ok {
		return schema.DomainClassification{Category: schema.UnknownDomain, MatchedRule: schema.RuleNoEmail}
	}
	if hit, ok := c.byDomain[domain]; ok {
		c.hits++
		return hit
	}
	result := c.classifier.ClassifyDomain(domain)
	c.byDomain[domain] = result
	return result
}

// Len returns the number of distinct domains classified.
func (c *Cache) Len() int { return len(c.byDomain) }

// Hits returns the number of lookups served from the cache.
func (c *Cache) Hits() int { return c.hits }
