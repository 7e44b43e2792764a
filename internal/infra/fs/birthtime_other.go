//go:build !linux && !darwin

package fs

import "time"

func birthTime(string) (time.Time, error) {
	return time.Time{}, errBirthTimeUnavailable
}
