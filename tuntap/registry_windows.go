//go:build windows

package tuntap

import "golang.org/x/sys/windows/registry"

// regKey adapts a registry.Key to configKey. Keys are opened read only.
type regKey struct {
	k registry.Key
}

func openRegKey(parent registry.Key, path string) (configKey, error) {
	k, err := registry.OpenKey(parent, path, registry.READ)
	if err != nil {
		return nil, err
	}
	return regKey{k: k}, nil
}

func (r regKey) SubKeyNames() ([]string, error) { return r.k.ReadSubKeyNames(-1) }
func (r regKey) Close() error                   { return r.k.Close() }

func (r regKey) OpenSubKey(path string) (configKey, error) {
	return openRegKey(r.k, path)
}

func (r regKey) StringValue(name string) (string, error) {
	s, _, err := r.k.GetStringValue(name)
	return s, err
}

// lookupDeviceID maps a connection name to the adapter GUID of the TAP
// driver instance, e.g. "Ethernet 2" -> "{9A4D...}".
func lookupDeviceID(name string) (string, error) {
	root, err := openRegKey(registry.LOCAL_MACHINE, networkKeyPath)
	if err != nil {
		return "", err
	}
	defer root.Close()

	return resolveDeviceID(root, name)
}
