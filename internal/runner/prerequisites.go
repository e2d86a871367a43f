package runner

import (
	"fmt"
	"os/exec"
)

// ToolCheck is the result of checking that the board tool is available.
type ToolCheck struct {
	// Name is the tool name as configured
	Name string
	// Available indicates whether the tool was found
	Available bool
	// Path is the resolved path
	Path string
	// Message provides additional context
	Message string
	// Error contains the underlying error if the check failed
	Error error
}

// CheckTool verifies that name resolves to an executable, either as a path
// or through PATH.
func CheckTool(name string) ToolCheck {
	check := ToolCheck{Name: name}

	if name == "" {
		check.Error = fmt.Errorf("no tool configured")
		check.Message = "board tool name is empty; set \"tool\" in the config file or pass --tool"
		return check
	}

	path, err := exec.LookPath(name)
	if err != nil {
		check.Error = err
		check.Message = fmt.Sprintf("%s not found in PATH\n"+
			"The board configuration tool is normally installed on the device image.\n"+
			"Pass --tool with an absolute path if it lives outside PATH.", name)
		return check
	}

	check.Available = true
	check.Path = path
	check.Message = fmt.Sprintf("found at %s", path)
	return check
}
