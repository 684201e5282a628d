package contact

// Status classifies an Outcome.
type Status string

const (
	StatusAdded    Status = "added"
	StatusExists   Status = "exists"
	StatusChanged  Status = "changed"
	StatusNotFound Status = "not_found"
	StatusDeleted  Status = "deleted"
	StatusSaved    Status = "saved"
)

// Outcome is the result of a mutation that cannot fail but may be a no-op.
// "Already exists" and "not found" are outcomes, never errors.
type Outcome struct {
	Status  Status
	Message string
}

// String returns the human-readable message.
func (o Outcome) String() string {
	return o.Message
}

// Mutated reports whether the operation changed any state.
func (o Outcome) Mutated() bool {
	switch o.Status {
	case StatusAdded, StatusChanged, StatusDeleted, StatusSaved:
		return true
	default:
		return false
	}
}
