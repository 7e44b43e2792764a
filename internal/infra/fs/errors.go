package fs

import "errors"

var errBirthTimeUnavailable = errors.New("file creation time unavailable")
