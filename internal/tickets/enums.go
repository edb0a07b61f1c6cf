package tickets

// Status tracks a ticket's lifecycle. Tickets are created pending and
// move to scanned exactly once at the venue door; they are deleted only
// as compensation for a failed order-completion workflow.
type Status string

const (
	StatusPending Status = "pending"
	StatusScanned Status = "scanned"
)

// GeneralAccessSeatLabel is the sentinel seat label for undifferentiated
// capacity tickets. The seat-uniqueness constraint excludes it.
const GeneralAccessSeatLabel = "GA"
