package syncer

import "encoding/json"

// Codec converts values of T to and from the string payloads the store
// holds. The engine assumes Decode(Encode(v)) == v for every v; any codec
// pair used with the engine must satisfy that round trip.
type Codec[T any] interface {
	// Encode serializes v for persistence. Called only when a fetched value
	// is written back to the store.
	Encode(v T) (string, error)

	// Decode parses a stored payload. A failure is treated by the engine as
	// a cache miss, never as a fatal fault.
	Decode(payload string) (T, error)
}

// CodecFuncs adapts a pair of functions to the Codec interface.
type CodecFuncs[T any] struct {
	EncodeFunc func(v T) (string, error)
	DecodeFunc func(payload string) (T, error)
}

func (c CodecFuncs[T]) Encode(v T) (string, error) {
	return c.EncodeFunc(v)
}

func (c CodecFuncs[T]) Decode(payload string) (T, error) {
	return c.DecodeFunc(payload)
}

// JSON returns the default codec, marshaling T through encoding/json.
func JSON[T any]() Codec[T] {
	return jsonCodec[T]{}
}

type jsonCodec[T any] struct{}

func (jsonCodec[T]) Encode(v T) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (jsonCodec[T]) Decode(payload string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}
