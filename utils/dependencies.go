package utils

import (
	"fmt"
	"os/exec"
	"runtime"
)

// ValidateExiftoolDependency checks that exiftool can be run. An empty path
// looks it up in PATH. It returns the resolved executable path.
func ValidateExiftoolDependency(path string) (string, error) {
	name := path
	if name == "" {
		name = "exiftool"
	}

	resolved, err := exec.LookPath(name)
	if err != nil {
		if path != "" {
			return "", fmt.Errorf("exiftool not found at %s. %s", path, getInstallationInstructions())
		}
		return "", fmt.Errorf("exiftool not found in PATH. %s", getInstallationInstructions())
	}

	return resolved, nil
}

// getInstallationInstructions returns platform-specific installation instructions
func getInstallationInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install exiftool"
	case "linux":
		return "Install with: apt-get install libimage-exiftool-perl (Ubuntu/Debian) or dnf install perl-Image-ExifTool (Fedora/RHEL)"
	case "windows":
		return "Download from https://exiftool.org and add exiftool.exe to PATH"
	default:
		return "Download from https://exiftool.org"
	}
}
