// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package query parses list-valued URL query parameters.
package query

import (
	"net/url"
	"strings"
)

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}

// Values collects key from every occurrence in values, accepting both
// repeated keys (?genre=a&genre=b) and comma lists (?genre=a,b).
func Values(values url.Values, key string) []string {
	var res []string
	for _, raw := range values[key] {
		res = append(res, StringSlice(raw)...)
	}
	return res
}
