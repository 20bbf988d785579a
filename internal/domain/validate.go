package domain

import "errors"

var (
	ErrDaysNoticeRange = errors.New("days notice must be between 1 and 14")
	ErrSendHourRange   = errors.New("send hour must be between 0 and 23")
)

// ValidateSettings checks preference bounds at the settings boundary. The
// digest core itself tolerates out-of-range values defensively; rejection
// happens here, before anything is persisted.
func ValidateSettings(daysNotice, sendHour int, tz string) error {
	if daysNotice < 1 || daysNotice > 14 {
		return ErrDaysNoticeRange
	}
	if sendHour < 0 || sendHour > 23 {
		return ErrSendHourRange
	}
	if _, err := LoadZone(tz); err != nil {
		return err
	}
	return nil
}
