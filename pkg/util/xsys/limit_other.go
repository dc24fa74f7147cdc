//go:build !unix

package xsys

// CurrentFileLimit 在非 Unix 平台返回 [ErrUnsupportedPlatform]。
func CurrentFileLimit() (FileLimit, error) {
	return FileLimit{}, ErrUnsupportedPlatform
}

// RaiseFileLimit 在非 Unix 平台返回 [ErrUnsupportedPlatform]。
func RaiseFileLimit(uint64) (Raised, error) {
	return Raised{}, ErrUnsupportedPlatform
}
