package app

// Operation statuses recorded in the journal.
const (
	StatusSuccess   = "success"
	StatusUnchanged = "unchanged"
	StatusError     = "error"
)

// Operation tracks one CLI command. Operations are created in memory with
// ID=0; only commands that may change the seals persist them, which gives
// them an auto-increment ID from the database.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
}

// NewOperation creates a new in-memory operation.
func NewOperation(operation, parameters string) *Operation {
	return &Operation{
		Operation:  operation,
		Parameters: parameters,
		Status:     StatusSuccess,
	}
}

// Persisted returns true if this operation has been saved to the database.
func (op *Operation) Persisted() bool {
	return op.ID != 0
}

// settle records the outcome of a store operation. A failure is never
// overwritten by a later outcome.
func (op *Operation) settle(changed bool, err error) {
	if op.Status == StatusError {
		return
	}
	switch {
	case err != nil:
		op.Status = StatusError
	case changed:
		op.Status = StatusSuccess
	default:
		op.Status = StatusUnchanged
	}
}
