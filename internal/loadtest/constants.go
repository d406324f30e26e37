package loadtest

// HTTP status code constants.
const (
	StatusOK                  = 200
	StatusUnprocessableEntity = 422
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	gridSize             = 50.0
)

// Submission outcomes.
const (
	resultSuccess      = "success"
	resultNotConverged = "not_converged"
	resultFailed       = "failed"
	resultInvalid      = "invalid"
)
