package persist

import (
	"errors"
	"fmt"
)

// Codec maps states to the string form kept by durable stores.
type Codec[S comparable] interface {
	Encode(state S) (string, error)
	Decode(raw string) (S, error)
}

// StringCodec stores string-based state types verbatim.
type StringCodec[S ~string] struct{}

func (StringCodec[S]) Encode(state S) (string, error) {
	return string(state), nil
}

func (StringCodec[S]) Decode(raw string) (S, error) {
	if raw == "" {
		var zero S
		return zero, errors.Join(ErrInvalidCodecValue, errors.New("empty state"))
	}
	return S(raw), nil
}

// CodecFunc builds a Codec from two functions.
type CodecFunc[S comparable] struct {
	EncodeFunc func(S) (string, error)
	DecodeFunc func(string) (S, error)
}

func (c CodecFunc[S]) Encode(state S) (string, error) {
	return c.EncodeFunc(state)
}

func (c CodecFunc[S]) Decode(raw string) (S, error) {
	s, err := c.DecodeFunc(raw)
	if err != nil {
		return s, errors.Join(ErrInvalidCodecValue, err)
	}
	return s, nil
}

// EnumCodec encodes states by their position-independent names. Unknown
// names fail to decode.
func EnumCodec[S comparable](names map[S]string) Codec[S] {
	reverse := make(map[string]S, len(names))
	for s, n := range names {
		reverse[n] = s
	}
	return CodecFunc[S]{
		EncodeFunc: func(s S) (string, error) {
			n, ok := names[s]
			if !ok {
				return "", fmt.Errorf("state %v has no name", s)
			}
			return n, nil
		},
		DecodeFunc: func(raw string) (S, error) {
			s, ok := reverse[raw]
			if !ok {
				var zero S
				return zero, fmt.Errorf("unknown state name %q", raw)
			}
			return s, nil
		},
	}
}

// Key renders an entity identifier for use in store keys.
func Key[ID comparable](id ID) string {
	return fmt.Sprint(id)
}
