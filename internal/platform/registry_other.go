//go:build !windows

package platform

type unavailableRegistry struct{}

// SystemRegistry reports ErrRegistryUnavailable for every read
func SystemRegistry() Registry {
	return unavailableRegistry{}
}

func (unavailableRegistry) ReadString(Hive, string, string) (string, error) {
	return "", ErrRegistryUnavailable
}

func (unavailableRegistry) ReadSubKeys(Hive, string) ([]string, error) {
	return nil, ErrRegistryUnavailable
}
