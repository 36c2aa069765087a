package analytics

import "fmt"

// InvalidSelectionError reports unusable caller input for one of the query
// dimensions. It is fatal to the current call and never retried internally.
type InvalidSelectionError struct {
	Dimension string // "dx", "pe" or "ou"
	Detail    string
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid %s selection: %s", e.Dimension, e.Detail)
}

// MalformedResponseError reports an analytics response missing one of the
// required columns. The response shape is unusable.
type MalformedResponseError struct {
	Column string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed analytics response: missing %q column", e.Column)
}
