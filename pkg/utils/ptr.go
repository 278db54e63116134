package utils

import "strings"

func SafeDeref[T any](ptr *T) T {
	if ptr == nil {
		var zero T
		return zero
	}
	return *ptr
}

func ToPtr[T any](v T) *T {
	return &v
}

// TrimmedPtr - nil для пустой строки, иначе указатель на обрезанное значение.
func TrimmedPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
