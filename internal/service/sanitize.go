package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips all markup from user-supplied text fields before persistence.
var textPolicy = bluemonday.StrictPolicy()

func sanitizeText(raw string) string {
	return strings.TrimSpace(textPolicy.Sanitize(raw))
}
