package models

import "strings"

// AddTag returns tags with the trimmed candidate appended. Blank candidates
// and exact (case-sensitive) duplicates leave the list unchanged. The input
// slice is never modified.
func AddTag(tags []string, candidate string) []string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return tags
	}
	for _, t := range tags {
		if t == candidate {
			return tags
		}
	}
	out := make([]string, 0, len(tags)+1)
	out = append(out, tags...)
	return append(out, candidate)
}

// RemoveTag returns tags without any entry equal to target.
func RemoveTag(tags []string, target string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != target {
			out = append(out, t)
		}
	}
	return out
}
