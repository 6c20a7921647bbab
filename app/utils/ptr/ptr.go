package ptr

func To[T any](v T) *T {
	return &v
}

func ToInt(v int) *int {
	return &v
}

func ToBool(v bool) *bool {
	return &v
}

func ToString(v string) *string {
	return &v
}
