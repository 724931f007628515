package rclone

import (
	"github.com/rclone/rclone/fs/filter"
	"github.com/xzzpig/rclone-vfs/internal/i18n"
)

// NewFilterFromRules creates a new rclone filter from a list of filter rules.
// Each rule should be in the format "- pattern" (exclude) or "+ pattern" (include).
// Returns nil (and no error) when rules is empty.
//
// Example valid rules:
//   - "- node_modules/**" (exclude node_modules directory)
//   - "+ *.jpg" (include all jpg files)
//   - "- *" (exclude all files)
//   - "+ **" (include all files recursively)
func NewFilterFromRules(rules []string) (*filter.Filter, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	fi, err := filter.NewFilter(nil)
	if err != nil {
		return nil, err
	}

	for i, rule := range rules {
		if err := fi.AddRule(rule); err != nil {
			return nil, i18n.NewI18nErrorWithData(i18n.ErrFilterRuleInvalid, map[string]any{
				"Index":  i + 1,
				"Rule":   rule,
				"Reason": err.Error(),
			}).WithCause(err)
		}
	}

	return fi, nil
}

// ValidateFilterRules validates a list of rclone filter rules.
// Returns nil if all rules are valid, otherwise an error naming the first invalid rule.
func ValidateFilterRules(rules []string) error {
	_, err := NewFilterFromRules(rules)
	return err
}
