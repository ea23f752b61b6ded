package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	envGantryContainer     = "GANTRY_CONTAINER"
	envGantryContainersDir = "GANTRY_CONTAINERS_DIR"
)

// resolveContainerPath picks the container to operate on: the explicit flag,
// then $GANTRY_CONTAINER, then the config file default. The chosen path must
// exist and carry the .axc extension.
func resolveContainerPath(flagValue, configDefault string) (string, error) {
	path := strings.TrimSpace(flagValue)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(envGantryContainer))
	}
	if path == "" {
		path = strings.TrimSpace(configDefault)
	}
	if path == "" {
		return "", fmt.Errorf("--container is required unless %s is set", envGantryContainer)
	}

	path = filepath.Clean(path)
	st, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if st.IsDir() {
		return "", fmt.Errorf("container path is a directory: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".axc") {
		return "", fmt.Errorf("container path must end in .axc: %s", path)
	}
	return path, nil
}

// resolveContainersDir picks the directory to list: the explicit flag, then
// $GANTRY_CONTAINERS_DIR, then the config file default.
func resolveContainersDir(flagValue, configDefault string) (string, error) {
	dir := strings.TrimSpace(flagValue)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(envGantryContainersDir))
	}
	if dir == "" {
		dir = strings.TrimSpace(configDefault)
	}
	if dir == "" {
		return "", fmt.Errorf("--dir is required unless %s is set", envGantryContainersDir)
	}
	return filepath.Clean(dir), nil
}

// discoverContainers lists the .axc files directly under dir, sorted by name.
func discoverContainers(dir string) ([]string, error) {
	st, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("containers path is not a directory: %s", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	containers := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(strings.ToLower(name), ".axc") {
			continue
		}
		containers = append(containers, filepath.Join(dir, name))
	}
	sort.Strings(containers)
	return containers, nil
}
