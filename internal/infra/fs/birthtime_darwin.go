//go:build darwin

package fs

import (
	"time"

	"golang.org/x/sys/unix"
)

func birthTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, err
	}
	if st.Btim.Sec == 0 {
		return time.Time{}, errBirthTimeUnavailable
	}
	return time.Unix(st.Btim.Unix()), nil
}
