package services

import (
	"fmt"
	"strings"

	"sipeta/models"
)

// groupRule maps a set of category keywords to a business group.
type groupRule struct {
	keywords []string
	group    models.BusinessGroup
}

// groupRules is evaluated top to bottom and the first hit wins. The keyword
// sets overlap ("mie ayam" matches both of the first two rules) so the
// order is part of the contract.
var groupRules = []groupRule{
	{keywords: []string{"bakso", "mie", "bakmie"}, group: models.GroupNoodles},
	{keywords: []string{"ayam", "lele", "sate", "bebek"}, group: models.GroupGrilled},
	{keywords: []string{"padang", "soto", "nasi"}, group: models.GroupRice},
	{keywords: []string{"dimsum", "snack", "roti", "kue"}, group: models.GroupSnacks},
}

func (r groupRule) matches(category string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(category, kw) {
			return true
		}
	}
	return false
}

// Classify buckets a free-text category into one of the five business groups.
func Classify(category string) models.BusinessGroup {
	lower := strings.ToLower(category)
	for _, rule := range groupRules {
		if rule.matches(lower) {
			return rule.group
		}
	}
	return models.GroupOther
}

// ClassifyValue classifies any value by its text form. nil classifies as
// the empty string.
func ClassifyValue(v any) models.BusinessGroup {
	if v == nil {
		return Classify("")
	}
	if s, ok := v.(string); ok {
		return Classify(s)
	}
	return Classify(fmt.Sprint(v))
}
