// Package utils contains general helper functions used across treemerge.
package utils

import "strings"

// DeduplicatePatterns removes duplicate and blank entries from a slice while preserving order.
// The first occurrence of each unique entry is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == EmptyString {
			continue
		}
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}

// ContainsAnySubstring reports whether candidate contains any of the provided substrings.
// Empty substrings are ignored so that a blank entry never matches every path.
func ContainsAnySubstring(candidate string, substrings []string) bool {
	for _, substring := range substrings {
		if substring == EmptyString {
			continue
		}
		if strings.Contains(candidate, substring) {
			return true
		}
	}
	return false
}
