package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsImageRequest(t *testing.T) {
	assert.True(t, IsImageRequest("Нарисуй кота в шляпе"))
	assert.True(t, IsImageRequest("please DRAW a cat"))
	assert.True(t, IsImageRequest("can you generate image of a sunset"))
	assert.False(t, IsImageRequest("What is the weather today?"))
	assert.False(t, IsImageRequest(""))
}
