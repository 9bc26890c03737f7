package common

import "testing"

func TestGetString(t *testing.T) {
	str := "hello"
	tests := []struct {
		name string
		ptr  *string
		want string
	}{
		{name: "non-nil pointer", ptr: &str, want: "hello"},
		{name: "nil pointer", ptr: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetString(tt.ptr); got != tt.want {
				t.Errorf("GetString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetBool(t *testing.T) {
	trueVal := true
	falseVal := false
	tests := []struct {
		name string
		ptr  *bool
		want bool
	}{
		{name: "true pointer", ptr: &trueVal, want: true},
		{name: "false pointer", ptr: &falseVal, want: false},
		{name: "nil pointer", ptr: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetBool(tt.ptr); got != tt.want {
				t.Errorf("GetBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPtr(t *testing.T) {
	value := "main"
	ptr := Ptr(value)
	if ptr == nil || *ptr != "main" {
		t.Fatalf("Ptr() = %v, want pointer to %q", ptr, value)
	}
	value = "dev"
	if *ptr != "main" {
		t.Errorf("Ptr() should copy its argument, got %q", *ptr)
	}
}
