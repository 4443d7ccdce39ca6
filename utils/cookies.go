package utils

import (
	"fmt"

	"urbanstyle-registrar/internal/types"
)

// CopyCookies replicates the source session's authenticated state onto the
// target: the target is first navigated to the source's current URL so both
// sit on the same origin, then every cookie is copied over. A cookie that
// cannot be set on the target (domain mismatch and the like) is logged and
// skipped rather than aborting the transfer.
func CopyCookies(source, target Browser, logger types.Logger) error {
	sourceURL, err := source.Location()
	if err != nil {
		return fmt.Errorf("failed to read source URL: %w", err)
	}
	if sourceURL == "" {
		return fmt.Errorf("source session has no current URL, cannot copy cookies")
	}

	if err := target.Navigate(sourceURL); err != nil {
		return fmt.Errorf("failed to align target to %s: %w", sourceURL, err)
	}

	cookies, err := source.Cookies()
	if err != nil {
		return fmt.Errorf("failed to read source cookies: %w", err)
	}

	copied := 0
	for _, c := range cookies {
		if err := target.SetCookie(c); err != nil {
			logger.Warnf("Skipping cookie %s: %v", c.Name, err)
			continue
		}
		copied++
	}

	logger.Debugf("Copied %d/%d cookies to parse session", copied, len(cookies))
	return nil
}
