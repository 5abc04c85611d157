package markup

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicyOnce sync.Once
	ugcPolicy     *bluemonday.Policy
)

// Sanitized returns user supplied HTML as a Raw leaf after stripping
// scripts, event handlers and other unsafe markup.
func Sanitized(raw string) Raw {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return Raw(ugcSanitizer().Sanitize(trimmed))
}

func ugcSanitizer() *bluemonday.Policy {
	ugcPolicyOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
	})
	return ugcPolicy
}
