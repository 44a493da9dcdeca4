package repository

import "strconv"

// MySQL rows use BIGINT UNSIGNED AUTO_INCREMENT keys exposed as decimal
// strings so that both backends share the same opaque id type.

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}

func formatID(id uint64) string { return strconv.FormatUint(id, 10) }
