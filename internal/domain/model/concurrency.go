package model

// ETagAny matches any stored version and turns a write into last-write-wins.
const ETagAny = "*"

// ConcurrencyMode selects how a write or delete treats the stored version.
type ConcurrencyMode struct {
	expectedETag string
}

// Unconditional overwrites whatever is stored.
func Unconditional() ConcurrencyMode {
	return ConcurrencyMode{expectedETag: ETagAny}
}

// Optimistic only applies the write when the stored ETag matches.
func Optimistic(expectedETag string) ConcurrencyMode {
	if expectedETag == "" {
		return Unconditional()
	}

	return ConcurrencyMode{expectedETag: expectedETag}
}

func (m ConcurrencyMode) IsUnconditional() bool {
	return m.expectedETag == "" || m.expectedETag == ETagAny
}

func (m ConcurrencyMode) ETag() string {
	if m.IsUnconditional() {
		return ETagAny
	}

	return m.expectedETag
}
