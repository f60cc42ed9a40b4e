// Copyright (c) 2026 REDUX Collective
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util holds small helpers shared across packages: slug handling,
// path safety checks and deep cloning of element trees.
package util

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]+`)
	hyphenRuns    = regexp.MustCompile(`-{2,}`)
	slugValidator = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Slugify reduces a string to a lowercase ASCII slug suitable as a page ID:
// accents stripped, spaces become hyphens, everything else that isn't
// alphanumeric is dropped.
func Slugify(s string) string {
	// Decompose accents, then strip combining marks
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(result)
	result = strings.ReplaceAll(result, " ", "-")
	result = nonSlugChars.ReplaceAllString(result, "")
	result = hyphenRuns.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// IsValidSlug reports whether s is a well-formed slug: lowercase
// alphanumerics separated by single hyphens, no leading or trailing hyphen.
func IsValidSlug(s string) bool {
	return slugValidator.MatchString(s)
}
