package tuntap

import "iter"

// networkKeyPath holds one subkey per network class, each of them with one
// subkey per adapter; adapters carry their user visible name in Connection\Name.
const networkKeyPath = `SYSTEM\CurrentControlSet\Control\Network`

// configKey is the subset of a registry key the resolver needs.
type configKey interface {
	SubKeyNames() ([]string, error)
	OpenSubKey(path string) (configKey, error)
	StringValue(name string) (string, error)
	Close() error
}

// connection is one adapter found below the network key.
type connection struct {
	Class       string
	Adapter     string
	DisplayName string
}

// connections walks root two levels deep and yields every adapter having a
// readable Connection\Name value, in enumeration order. Each key is closed
// before the walk moves past it, including when the consumer stops early.
// Classes or adapters that cannot be opened are skipped.
func connections(root configKey) iter.Seq2[connection, error] {
	return func(yield func(connection, error) bool) {
		classes, err := root.SubKeyNames()
		if err != nil {
			yield(connection{}, err)
			return
		}
		for _, class := range classes {
			if !walkClass(root, class, yield) {
				return
			}
		}
	}
}

func walkClass(root configKey, class string, yield func(connection, error) bool) bool {
	ck, err := root.OpenSubKey(class)
	if err != nil {
		return true
	}
	defer ck.Close()

	adapters, err := ck.SubKeyNames()
	if err != nil {
		return true
	}
	for _, adapter := range adapters {
		name, ok := displayName(ck, adapter)
		if !ok {
			continue
		}
		if !yield(connection{Class: class, Adapter: adapter, DisplayName: name}, nil) {
			return false
		}
	}
	return true
}

func displayName(class configKey, adapter string) (string, bool) {
	k, err := class.OpenSubKey(adapter + `\Connection`)
	if err != nil {
		return "", false
	}
	defer k.Close()

	name, err := k.StringValue("Name")
	if err != nil {
		return "", false
	}
	return name, true
}

// resolveDeviceID returns the identifier of the first adapter whose
// connection name equals name exactly (case sensitive). The error is
// ErrInterfaceNotFound when nothing matched, or the error that stopped the walk.
func resolveDeviceID(root configKey, name string) (string, error) {
	for c, err := range connections(root) {
		if err != nil {
			return "", err
		}
		if c.DisplayName == name {
			return c.Adapter, nil
		}
	}
	return "", ErrInterfaceNotFound
}
