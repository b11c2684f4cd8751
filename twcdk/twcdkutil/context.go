package twcdkutil

import (
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
)

// deploymentIdentContextKey is the well-known key under which a stack stores its
// deployment identifier. Set on the stack node so every construct inside the
// stack can resolve it via DeploymentIdent.
const deploymentIdentContextKey = "__twcdkutil_deployment_ident"

// StoreDeploymentIdent stores the deployment identifier in the given scope's
// context. Called by stack creation before any child constructs exist; exposed
// so tests can set up scopes without going through SetupApp.
func StoreDeploymentIdent(scope constructs.Construct, deploymentIdent string) {
	scope.Node().SetContext(jsii.String(deploymentIdentContextKey), deploymentIdent)
}

// DeploymentIdent returns the deployment identifier of the stack containing
// scope, or "" when the scope belongs to a shared stack.
func DeploymentIdent(scope constructs.Construct) string {
	val := scope.Node().TryGetContext(jsii.String(deploymentIdentContextKey))
	if val == nil {
		return ""
	}
	s, ok := val.(string)
	if !ok {
		return ""
	}
	return s
}
