// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/animeapi/pkg/convert"
)

func TestToIntD(t *testing.T) {
	assert.Equal(t, 7, convert.ToIntD("", 7))
	assert.Equal(t, 7, convert.ToIntD("seven", 7))
	assert.Equal(t, -3, convert.ToIntD("-3", 7))
	assert.Equal(t, 42, convert.ToIntD("42", 7))
}
