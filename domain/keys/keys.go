package keys

import (
	"strings"
)

const (
	// PfxHealthCheck is used for prefixing health check redis key
	PfxHealthCheck = "healthcheck"
	// PfxCustody is used for prefixing cached custody observations
	PfxCustody = "custody"
	// PfxSweeperLock is used for the sweeper leader lock
	PfxSweeperLock = "sweeperLock"
)

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}

// GetPrefix extracts the prefix of a key, used as a metric tag.
// Keys with more than two components report the first two.
func GetPrefix(key string) string {
	s := strings.Split(key, ":")
	switch {
	case len(s) > 2:
		return strings.Join(s[:2], ":")
	case len(s) > 1:
		return s[0]
	}
	return ""
}
