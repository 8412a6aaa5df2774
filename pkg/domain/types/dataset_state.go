package types

// DatasetState represents the load state of the dashboard dataset
type DatasetState string

const (
	DatasetStateLoading DatasetState = "loading"
	DatasetStateReady   DatasetState = "ready"
	DatasetStateFailed  DatasetState = "failed"
)

// String returns the string representation of the state
func (s DatasetState) String() string {
	return string(s)
}

// IsValid checks if the state is valid
func (s DatasetState) IsValid() bool {
	switch s {
	case DatasetStateLoading, DatasetStateReady, DatasetStateFailed:
		return true
	default:
		return false
	}
}

// IsReady reports whether lookups can be served
func (s DatasetState) IsReady() bool {
	return s == DatasetStateReady
}
