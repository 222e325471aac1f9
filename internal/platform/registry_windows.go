//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

type systemRegistry struct{}

// SystemRegistry reads the live Windows registry
func SystemRegistry() Registry {
	return systemRegistry{}
}

func rootKey(hive Hive) registry.Key {
	if hive == CurrentUser {
		return registry.CURRENT_USER
	}
	return registry.LOCAL_MACHINE
}

func (systemRegistry) ReadString(hive Hive, path, name string) (string, error) {
	key, err := registry.OpenKey(rootKey(hive), path, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("failed to open registry key %s\\%s: %w", hive, path, err)
	}
	defer key.Close()

	value, _, err := key.GetStringValue(name)
	if err != nil {
		return "", fmt.Errorf("failed to read %s from %s\\%s: %w", name, hive, path, err)
	}
	return value, nil
}

func (systemRegistry) ReadSubKeys(hive Hive, path string) ([]string, error) {
	key, err := registry.OpenKey(rootKey(hive), path, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, fmt.Errorf("failed to open registry key %s\\%s: %w", hive, path, err)
	}
	defer key.Close()

	names, err := key.ReadSubKeyNames(-1)
	if err != nil {
		return nil, fmt.Errorf("failed to list sub keys of %s\\%s: %w", hive, path, err)
	}
	return names, nil
}
