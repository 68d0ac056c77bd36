package hrconfig

import "errors"

var (
	ErrSettingsNotFound = errors.New("hr settings not found")
)
