package ptr

import "time"

// String return a pointer to the input value
func String(value string) *string {
	return &value
}

// Int32 return a pointer to the input value
func Int32(value int32) *int32 {
	return &value
}

// Bool return a pointer to the input value
func Bool(value bool) *bool {
	return &value
}

// Time return a pointer to the input value
func Time(value time.Time) *time.Time {
	return &value
}

// Duration return a pointer to the input value
func Duration(value time.Duration) *time.Duration {
	return &value
}
