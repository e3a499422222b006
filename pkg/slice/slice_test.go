// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/animeapi/pkg/slice"
)

func TestMap(t *testing.T) {
	assert.Nil(t, slice.Map[string, int](nil, func(s string) int { return len(s) }))
	assert.Equal(t, []int{1, 3}, slice.Map([]string{"a", "abc"}, func(s string) int { return len(s) }))
}

func TestFilter(t *testing.T) {
	nonEmpty := func(s string) bool { return s != "" }
	assert.Equal(t, []string{"a", "b"}, slice.Filter([]string{"a", "", "b"}, nonEmpty))
	assert.Empty(t, slice.Filter([]string{"", ""}, nonEmpty))
}

func TestUniqueBy(t *testing.T) {
	got := slice.UniqueBy([]string{"Action", "action", "Drama", "ACTION"}, strings.ToLower)
	assert.Equal(t, []string{"Action", "Drama"}, got)
}
