package models

import "strings"

// Categories offered by the creation form, in display order.
var Categories = []string{
	"Music", "Social", "Education", "Gaming", "Arts",
	"Sports", "Wellness", "Networking", "Technology",
}

// CategoryValue returns the submitted form of a category label.
func CategoryValue(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// IsKnownCategory reports whether v names one of Categories, case-insensitively.
func IsKnownCategory(v string) bool {
	v = CategoryValue(v)
	for _, c := range Categories {
		if CategoryValue(c) == v {
			return true
		}
	}

	return false
}
