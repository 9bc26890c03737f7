package common

func GetString(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}

func GetBool(ptr *bool) bool {
	if ptr == nil {
		return false
	}
	return *ptr
}

// Ptr returns a pointer to a copy of v, for SDK argument structs.
func Ptr[T any](v T) *T {
	return &v
}
