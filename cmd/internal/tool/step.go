package tool

import "fmt"

// Step is one phase of the development workflow. Commands select a step
// list and the execution graph orders the per-tool steps within it.
type Step int

const (
	StepInit Step = iota
	StepDoctor
	StepFmt
	StepGen
	StepLint
	StepBuild
	StepUnitTest
	StepRelease
	StepBootstrap
	StepDiff
	StepDeploy
	StepInspect
)

var stepNames = [...]string{
	StepInit:      "init",
	StepDoctor:    "doctor",
	StepFmt:       "fmt",
	StepGen:       "gen",
	StepLint:      "lint",
	StepBuild:     "build",
	StepUnitTest:  "unit-test",
	StepRelease:   "release",
	StepBootstrap: "bootstrap",
	StepDiff:      "diff",
	StepDeploy:    "deploy",
	StepInspect:   "inspect",
}

func (s Step) String() string {
	if int(s) < len(stepNames) {
		return stepNames[s]
	}
	return fmt.Sprintf("step(%d)", int(s))
}

var InitSteps = []Step{StepInit}

var DoctorSteps = []Step{StepDoctor}

var PreflightSteps = []Step{StepDoctor, StepGen, StepFmt, StepLint, StepBuild, StepUnitTest}

var ReleaseSteps = []Step{StepRelease}

var AllSteps = []Step{
	StepInit, StepDoctor, StepGen, StepFmt, StepLint, StepBuild, StepUnitTest,
	StepRelease, StepBootstrap, StepDiff, StepDeploy, StepInspect,
}
