package agents

// Suite bundles the six specialized agents behind typed methods. Each agent
// is a callSpec bound to the shared executor; they differ only in prompt
// content and output schema, never in control flow.
type Suite struct {
	exec *Executor
}

// NewSuite binds the specialized agents to the given executor.
func NewSuite(exec *Executor) *Suite {
	return &Suite{exec: exec}
}
