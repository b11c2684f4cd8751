// Package dag plans and runs workspace steps as a directed acyclic
// graph. Each node is one (project, step, tool) combination; edges
// encode step ordering within a tool, RunsAfter ordering between tools,
// and depends_on ordering between projects. Independent nodes run
// concurrently during the walk.
package dag

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	tfdag "github.com/sourcegraph/tf-dag/dag"
	"github.com/tidewaterhq/twapp/cmd/internal/tool"
	"github.com/tidewaterhq/twapp/cmd/internal/wscfg"
)

type Node struct {
	Project string
	Step    tool.Step
	Tool    tool.Tool
	Dir     string
	Config  any
}

func (n *Node) Name() string {
	return fmt.Sprintf("%s:%s:%s", n.Project, n.Step, n.Tool.Name())
}

type nodeKey struct {
	project string
	step    tool.Step
	tool    string
}

type builder struct {
	graph    tfdag.AcyclicGraph
	nodes    map[nodeKey]*Node
	registry *tool.Registry
	cfg      *wscfg.Config
	steps    []tool.Step
}

// Build plans the execution graph for the given steps across the
// workspace projects, honoring cfg.ProjectFilter and cfg.NoDeps.
func Build(
	projects []wscfg.ProjectConfig,
	registry *tool.Registry,
	cfg *wscfg.Config,
	steps []tool.Step,
) (*tfdag.AcyclicGraph, error) {
	// Dependency names are checked against the full project list, not
	// the filtered one, so a typo in depends_on fails even when the
	// filter would have excluded the dependency anyway.
	if err := checkProjectDeps(projects); err != nil {
		return nil, err
	}

	projects = wscfg.FilterProjects(projects, cfg.ProjectFilter, cfg.NoDeps)

	bld := &builder{
		nodes:    make(map[nodeKey]*Node),
		registry: registry,
		cfg:      cfg,
		steps:    steps,
	}

	if err := bld.createNodes(projects); err != nil {
		return nil, err
	}
	bld.addStepEdges(projects)
	bld.addToolOrderEdges(projects)
	bld.addProjectDepEdges(projects)

	bld.graph.TransitiveReduction()

	if cycles := bld.graph.Cycles(); len(cycles) > 0 {
		return nil, errors.Newf("dependency cycle detected in execution graph")
	}

	return &bld.graph, nil
}

func checkProjectDeps(projects []wscfg.ProjectConfig) error {
	known := make(map[string]struct{}, len(projects))
	for _, proj := range projects {
		known[proj.Name] = struct{}{}
	}
	for _, proj := range projects {
		for _, dep := range proj.DependsOn {
			if _, ok := known[dep]; !ok {
				return errors.Newf("project %q depends on unknown project %q", proj.Name, dep)
			}
		}
	}
	return nil
}

func (bld *builder) nodeFor(project string, step tool.Step, toolName string) *Node {
	return bld.nodes[nodeKey{project: project, step: step, tool: toolName}]
}

func (bld *builder) createNodes(projects []wscfg.ProjectConfig) error {
	for _, proj := range projects {
		projDir := filepath.Join(bld.cfg.Root, proj.Dir)
		for _, toolName := range proj.Tools {
			resolved, err := bld.registry.Get(toolName)
			if err != nil {
				return errors.Wrapf(err, "project %q", proj.Name)
			}
			for _, step := range bld.steps {
				if !tool.SupportsStep(resolved, step) {
					continue
				}
				node := &Node{
					Project: proj.Name,
					Step:    step,
					Tool:    resolved,
					Dir:     projDir,
					Config:  bld.cfg.ProjectToolConfig(proj.Name, toolName),
				}
				bld.nodes[nodeKey{proj.Name, step, toolName}] = node
				bld.graph.Add(node)
			}
		}
	}
	return nil
}

// addStepEdges chains each tool's nodes in step order, skipping over
// steps the tool does not support.
func (bld *builder) addStepEdges(projects []wscfg.ProjectConfig) {
	for _, proj := range projects {
		for _, toolName := range proj.Tools {
			var prev *Node
			for _, step := range bld.steps {
				curr := bld.nodeFor(proj.Name, step, toolName)
				if curr == nil {
					continue
				}
				if prev != nil {
					bld.graph.Connect(tfdag.BasicEdge(curr, prev))
				}
				prev = curr
			}
		}
	}
}

// addToolOrderEdges applies RunsAfter within a single project: for each
// step both tools run, the dependent tool's node waits on the other's.
func (bld *builder) addToolOrderEdges(projects []wscfg.ProjectConfig) {
	for _, proj := range projects {
		inProject := make(map[string]struct{}, len(proj.Tools))
		for _, toolName := range proj.Tools {
			inProject[toolName] = struct{}{}
		}

		for _, toolName := range proj.Tools {
			resolved, err := bld.registry.Get(toolName)
			if err != nil {
				continue
			}
			for _, afterName := range resolved.RunsAfter() {
				if _, ok := inProject[afterName]; !ok {
					continue
				}
				for _, step := range bld.steps {
					dependent := bld.nodeFor(proj.Name, step, toolName)
					dependency := bld.nodeFor(proj.Name, step, afterName)
					if dependent != nil && dependency != nil {
						bld.graph.Connect(tfdag.BasicEdge(dependent, dependency))
					}
				}
			}
		}
	}
}

// addProjectDepEdges makes every node of a project wait, per step, on
// the same step's nodes in each project it depends on. Dependencies
// excluded by the filter get no edges.
func (bld *builder) addProjectDepEdges(projects []wscfg.ProjectConfig) {
	included := make(map[string]wscfg.ProjectConfig, len(projects))
	for _, proj := range projects {
		included[proj.Name] = proj
	}

	for _, proj := range projects {
		for _, depName := range proj.DependsOn {
			depProj, ok := included[depName]
			if !ok {
				continue
			}
			for _, step := range bld.steps {
				for _, toolName := range proj.Tools {
					dependent := bld.nodeFor(proj.Name, step, toolName)
					if dependent == nil {
						continue
					}
					for _, depTool := range depProj.Tools {
						if dependency := bld.nodeFor(depName, step, depTool); dependency != nil {
							bld.graph.Connect(tfdag.BasicEdge(dependent, dependency))
						}
					}
				}
			}
		}
	}
}

// Execute walks the graph, running each node's step with the node's
// tool configuration on the context and a per-node reporter. The walk
// runs independent nodes concurrently and stops dependents of a failed
// node.
func Execute(ctx context.Context, graph *tfdag.AcyclicGraph, reporter tool.Reporter) error {
	return graph.Walk(func(vertex tfdag.Vertex) error {
		node, ok := vertex.(*Node)
		if !ok {
			return errors.Newf("unexpected vertex type: %T", vertex)
		}
		nodeCtx := ctx
		if node.Config != nil {
			nodeCtx = tool.WithToolConfig(nodeCtx, node.Config)
		}
		r := reporter.ForNode(node.Project, node.Step.String(), node.Tool.Name())
		if err := tool.RunStep(nodeCtx, node.Tool, node.Step, node.Dir, r); err != nil {
			return errors.Wrapf(err, "%s", node.Name())
		}
		return nil
	})
}
