package codec

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotRegistered = errors.New("userstream: codec not registered")

	Default = JSON

	registry = map[string]Codec{
		"json":    JSON,
		"stdjson": StdJSON,
		"msgpack": MsgPack,
	}
)

// Codec marshals and unmarshals values to and from their encoded form.
type Codec interface {
	Marshal(interface{}) ([]byte, error)
	Unmarshal([]byte, interface{}) error
}

// Get returns the codec registered under name.
func Get(name string) (Codec, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return c, nil
}

// Name returns the registered name of c, or an empty string.
func Name(c Codec) string {
	for n, x := range registry {
		if x == c {
			return n
		}
	}
	return ""
}

// Names returns the sorted names of the registered codecs.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
