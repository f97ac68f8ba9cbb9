package utils

import (
	"path/filepath"
	"runtime"
	"strings"
)

// maxLocalWorkers caps the default number of exiftool processes.
const maxLocalWorkers = 4

// IsNetworkDrive detects if a file path is on a network-mounted drive
func IsNetworkDrive(filePath string) bool {
	// Check Windows UNC paths first, before converting to absolute path
	if strings.HasPrefix(filePath, "//") || strings.HasPrefix(filePath, "\\\\") {
		return true
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return false
	}

	networkPrefixes := []string{
		"/mnt/",     // Linux NFS/SMB mounts
		"/media/",   // Linux removable/network media
		"/Volumes/", // macOS network volumes
	}
	for _, prefix := range networkPrefixes {
		if strings.HasPrefix(absPath, prefix) {
			return true
		}
	}

	lowerPath := strings.ToLower(absPath)
	for _, indicator := range []string{"nfs", "cifs", "smb", "webdav", "sftp"} {
		if strings.Contains(lowerPath, indicator) {
			return true
		}
	}

	return false
}

// SuggestedWorkers picks a worker count for a tree rooted at root: one on
// network drives, otherwise the CPU count capped at maxLocalWorkers.
func SuggestedWorkers(root string) int {
	if IsNetworkDrive(root) {
		return 1
	}
	return min(runtime.NumCPU(), maxLocalWorkers)
}
