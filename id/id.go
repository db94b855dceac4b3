package id

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nuid"
)

var (
	ErrNotRegistered = errors.New("userstream: id generator not registered")

	UUID ID = &uuidGen{}
	NUID ID = &nuidGen{}

	generators = map[string]ID{
		"uuid": UUID,
		"nuid": NUID,
	}
)

// ID is an interface for generating unique random identifiers.
type ID interface {
	New() string
}

// Get returns the generator registered under name.
func Get(name string) (ID, error) {
	g, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, name)
	}
	return g, nil
}

// uuidGen implements ID to generate UUIDs.
type uuidGen struct{}

func (i *uuidGen) New() string {
	return uuid.New().String()
}

// nuidGen implements ID to generate NUIDs.
type nuidGen struct{}

func (i *nuidGen) New() string {
	return nuid.Next()
}
