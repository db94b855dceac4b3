package codec

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"
)

var (
	// JSON is backed by goccy/go-json and is the default payload codec.
	JSON Codec = &jsonCodec{}

	// StdJSON is backed by encoding/json.
	StdJSON Codec = &stdJSONCodec{}
)

type jsonCodec struct{}

func (*jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

func (*jsonCodec) Unmarshal(b []byte, v interface{}) error {
	if len(b) == 0 {
		return nil
	}
	return gojson.Unmarshal(b, v)
}

type stdJSONCodec struct{}

func (*stdJSONCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (*stdJSONCodec) Unmarshal(b []byte, v interface{}) error {
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}
