package trace

// DecisionTraceLevel controls the verbosity of dispatch decision tracing.
type DecisionTraceLevel string

const (
	// DecisionTraceNone disables decision tracing (zero overhead).
	DecisionTraceNone DecisionTraceLevel = "none"
	// DecisionTraceDecisions captures every dispatch assignment decision.
	DecisionTraceDecisions DecisionTraceLevel = "decisions"
)

var validDecisionTraceLevels = map[DecisionTraceLevel]bool{
	DecisionTraceNone: true,
	DecisionTraceDecisions: true,
	"": true, // empty defaults to none
}

// IsValidDecisionTraceLevel returns true if level is a recognized trace level.
func IsValidDecisionTraceLevel(level string) bool {
	return validDecisionTraceLevels[DecisionTraceLevel(level)]
}

// DecisionTraceConfig controls decision-trace collection behavior.
type DecisionTraceConfig struct {
	Level DecisionTraceLevel
	CounterfactualK int // requested number of counterfactual candidates per dispatch decision; no dispatcher in this module fills DispatchRecord.Candidates, so it does not change what is recorded
}

// DecisionTrace collects dispatch decision records across a run, independent
// of the append-only event log emitted through Handler. Useful for tests and
// offline analysis of assignment quality.
type DecisionTrace struct {
	Config DecisionTraceConfig
	Assignments []AssignmentRecord
	Dispatches []DispatchRecord
}

// NewDecisionTrace creates a DecisionTrace ready for recording.
func NewDecisionTrace(config DecisionTraceConfig) *DecisionTrace {
	return &DecisionTrace{
		Config: config,
		Assignments: make([]AssignmentRecord, 0),
		Dispatches: make([]DispatchRecord, 0),
	}
}

// RecordAssignment appends an assignment-outcome record.
func (dt *DecisionTrace) RecordAssignment(record AssignmentRecord) {
	dt.Assignments = append(dt.Assignments, record)
}

// RecordDispatch appends a dispatch decision record.
func (dt *DecisionTrace) RecordDispatch(record DispatchRecord) {
	dt.Dispatches = append(dt.Dispatches, record)
}
