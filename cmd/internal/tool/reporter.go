package tool

// Reporter hands out a NodeReporter per execution-graph node. Nodes run
// concurrently, so each node gets its own reporter rather than sharing
// one writer.
type Reporter interface {
	ForNode(project, step, tool string) NodeReporter
}

// NodeReporter is the output surface a step renders through. Steps never
// print directly; the CLI decides how sections and tables look.
type NodeReporter interface {
	Section(heading string)
	Table(columns []string, rows [][]string)
	Error(msg string)
}
