package gateway

import "fmt"

// Operation names carried by GenerationError.
const (
	OpDiagnosticQuiz = "GenerateDiagnosticQuiz"
	OpEvaluatePlan   = "EvaluateAndPlan"
	OpChapter        = "GenerateChapter"
	OpAdaptPlan      = "AdaptPlan"
	OpExtractContext = "ExtractContext"
)

// GenerationError is returned for any gateway failure: transport or
// provider errors, malformed or schema-invalid output, and output that
// parses but breaks a domain invariant. Err carries the cause and can be
// inspected with errors.As for the llm error types.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func genErr(op string, err error) error {
	return &GenerationError{Op: op, Err: err}
}
