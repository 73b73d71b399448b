package sanitizer

import "strings"

// NormalizeStringSlice applies normalizer to every item and drops empty
// results and repeats, keeping first-seen order.
func NormalizeStringSlice(items []string, normalizer func(string) string) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		normalized := normalizer(item)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		result = append(result, normalized)
	}
	return result
}

func NormalizeIDs(ids []string) []string {
	return NormalizeStringSlice(ids, NormalizeID)
}

// NormalizeWeekdays lowercases names and shortens them to three letters.
func NormalizeWeekdays(days []string) []string {
	return NormalizeStringSlice(days, func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		if len(s) > 3 {
			s = s[:3]
		}
		return s
	})
}
