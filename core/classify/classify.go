// Package classify labels email domains as company, academic, personal or unknown.
package classify

import (
	"net/mail"
	"strings"

	"github.com/huangsam/steward/internal/contract"
	"github.com/huangsam/steward/schema"
)

// Classifier is an immutable set of domain lists. It is safe for concurrent use.
type Classifier struct {
	company  map[string]struct{}
	academic []string
	personal map[string]struct{}
}

// New builds a Classifier from configured domain lists. Custom domains are
// merged into the company set. The input slices are copied.
func New(lists contract.DomainLists) *Classifier {
	c := &Classifier{
		company:  make(map[string]struct{}, len(lists.Company)+len(lists.Custom)),
		personal: make(map[string]struct{}, len(lists.Personal)),
	}
	for _, d := range lists.Company {
		c.company[normalizeDomain(d)] = struct{}{}
	}
	for _, d := range lists.Custom {
		c.company[normalizeDomain(d)] = struct{}{}
	}
	for _, d := range lists.Personal {
		c.personal[normalizeDomain(d)] = struct{}{}
	}
	for _, s := range lists.Academic {
		s = normalizeDomain(s)
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, ".") {
			s = "." + s
		}
		c.academic = append(c.academic, s)
	}
	return c
}

// Classify returns the classification of an email address.
// Missing or malformed addresses are unknown with the no_email rule.
func (c *Classifier) Classify(email string) schema.DomainClassification {
	domain, ok := ExtractDomain(email)
	if !ok {
		return schema.DomainClassification{Category: schema.UnknownDomain, MatchedRule: schema.RuleNoEmail}
	}
	return c.ClassifyDomain(domain)
}

// ClassifyDomain classifies an already extracted, lowercased domain.
func (c *Classifier) ClassifyDomain(domain string) schema.DomainClassification {
	result := schema.DomainClassification{Domain: domain}
	switch {
	case c.isCompany(domain):
		result.Category, result.MatchedRule = schema.CompanyDomain, schema.RuleCompanyDomain
	case c.isAcademic(domain):
		result.Category, result.MatchedRule = schema.AcademicDomain, schema.RuleAcademicSuffix
	case c.isPersonal(domain):
		result.Category, result.MatchedRule = schema.PersonalDomain, schema.RulePersonalDomain
	default:
		result.Category, result.MatchedRule = schema.UnknownDomain, schema.RuleNoMatch
	}
	return result
}

func (c *Classifier) isCompany(domain string) bool {
	_, ok := c.company[domain]
	return ok
}

func (c *Classifier) isAcademic(domain string) bool {
	dotted := "." + domain
	for _, suffix := range c.academic {
		if strings.HasSuffix(dotted, suffix) {
			return true
		}
	}
	return false
}

func (c *Classifier) isPersonal(domain string) bool {
	_, ok := c.personal[domain]
	return ok
}

// ExtractDomain returns the lowercased domain of an email address.
// It reports false for empty or malformed addresses.
func ExtractDomain(email string) (string, bool) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", false
	}
	at := strings.LastIndexByte(addr.Address, '@')
	if at <= 0 || at == len(addr.Address)-1 {
		return "", false
	}
	domain := normalizeDomain(addr.Address[at+1:])
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", false
	}
	return domain, true
}

func normalizeDomain(d string) string {
	return strings.ToLower(strings.TrimSpace(d))
}
