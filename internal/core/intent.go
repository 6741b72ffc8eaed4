package core

import "strings"

var imageTriggerKeywords = []string{
	"нарисуй", "создай", "генери", "сделай картину",
	"картинку", "изображение", "draw", "create image",
	"generate image", "make a picture",
}

// IsImageRequest reports whether text asks for a picture to be generated.
func IsImageRequest(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range imageTriggerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
