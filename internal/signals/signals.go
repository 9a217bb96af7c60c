// Package signals implements the typed accumulator of named circuit input
// signals (C3): a fluent builder that records bytes/bools/integers/field
// elements/limb vectors by name, merges sibling builders, and finalizes
// with a right-zero-padding pass driven by a max-length table.
package signals

import (
	"fmt"
	"math/big"
)

// Kind tags the dynamic type carried by a Value.
type Kind int

const (
	KindBytes Kind = iota
	KindBools
	KindU64
	KindFr
	KindFrs
	KindLimbs
)

// Value is one named signal's payload; exactly one of the typed fields is
// meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Bytes []byte
	Bools []bool
	U64   uint64
	Fr    *big.Int
	Frs   []*big.Int
	Limbs []uint64
}

// Builder is an ordered, named accumulator of signals. The zero value is
// ready to use. Builder carries no padded/unpadded marker in Go (unlike the
// original Rust phantom-type trick) — Pad returns a separate *Padded value,
// and only Padded exposes its signals (Get, Names, ToJSONValue).
type Builder struct {
	order  []string
	values map[string]Value
}

// New creates an empty Builder.
func New() *Builder {
	return &Builder{values: make(map[string]Value)}
}

func (b *Builder) set(name string, v Value) *Builder {
	if _, exists := b.values[name]; !exists {
		b.order = append(b.order, name)
	}
	b.values[name] = v
	return b
}

func (b *Builder) BytesInput(name string, v []byte) *Builder {
	cp := make([]byte, len(v))
	copy(cp, v)
	return b.set(name, Value{Kind: KindBytes, Bytes: cp})
}

func (b *Builder) StrInput(name, v string) *Builder {
	return b.BytesInput(name, []byte(v))
}

func (b *Builder) BoolsInput(name string, v []bool) *Builder {
	cp := make([]bool, len(v))
	copy(cp, v)
	return b.set(name, Value{Kind: KindBools, Bools: cp})
}

func (b *Builder) UsizeInput(name string, v int) *Builder {
	return b.set(name, Value{Kind: KindU64, U64: uint64(v)})
}

func (b *Builder) U64Input(name string, v uint64) *Builder {
	return b.set(name, Value{Kind: KindU64, U64: v})
}

func (b *Builder) BoolInput(name string, v bool) *Builder {
	var u uint64
	if v {
		u = 1
	}
	return b.set(name, Value{Kind: KindU64, U64: u})
}

func (b *Builder) FrInput(name string, v *big.Int) *Builder {
	return b.set(name, Value{Kind: KindFr, Fr: new(big.Int).Set(v)})
}

func (b *Builder) FrsInput(name string, v []*big.Int) *Builder {
	cp := make([]*big.Int, len(v))
	for i, x := range v {
		cp[i] = new(big.Int).Set(x)
	}
	return b.set(name, Value{Kind: KindFrs, Frs: cp})
}

func (b *Builder) LimbsInput(name string, v []uint64) *Builder {
	cp := make([]uint64, len(v))
	copy(cp, v)
	return b.set(name, Value{Kind: KindLimbs, Limbs: cp})
}

// Merge unions other's names into b. A duplicate name is an internal
// programming error (it indicates two field-signal groups collided), not a
// client-facing failure.
func (b *Builder) Merge(other *Builder) (*Builder, error) {
	for _, name := range other.order {
		if _, exists := b.values[name]; exists {
			return nil, fmt.Errorf("internal error: duplicate signal name %q", name)
		}
		b.order = append(b.order, name)
		b.values[name] = other.values[name]
	}
	return b, nil
}

// PaddingConfig supplies the per-signal maximum length table consulted by
// Pad.
type PaddingConfig struct {
	MaxLengths map[string]int
}

// Padded is the result of a successful Pad call; only Padded builders may
// be serialized for the prover.
type Padded struct {
	order  []string
	values map[string]Value
}

// Pad finalizes the builder: every name in cfg.MaxLengths must already
// exist as a bytes/bools/limbs vector of length <= its max, and is
// right-padded with the zero value of its element type to exactly that
// max. Unknown signals (not present in cfg.MaxLengths) are left untouched
// (P4).
func (b *Builder) Pad(cfg PaddingConfig) (*Padded, error) {
	out := &Padded{order: append([]string(nil), b.order...), values: make(map[string]Value, len(b.values))}
	for k, v := range b.values {
		out.values[k] = v
	}

	for name, maxLen := range cfg.MaxLengths {
		v, ok := out.values[name]
		if !ok {
			return nil, fmt.Errorf("padding config references unknown signal %q", name)
		}
		switch v.Kind {
		case KindBytes:
			if len(v.Bytes) > maxLen {
				return nil, fmt.Errorf("signal %q has length %d exceeding max %d", name, len(v.Bytes), maxLen)
			}
			padded := make([]byte, maxLen)
			copy(padded, v.Bytes)
			out.values[name] = Value{Kind: KindBytes, Bytes: padded}
		case KindBools:
			if len(v.Bools) > maxLen {
				return nil, fmt.Errorf("signal %q has length %d exceeding max %d", name, len(v.Bools), maxLen)
			}
			padded := make([]bool, maxLen)
			copy(padded, v.Bools)
			out.values[name] = Value{Kind: KindBools, Bools: padded}
		case KindLimbs:
			if len(v.Limbs) > maxLen {
				return nil, fmt.Errorf("signal %q has length %d exceeding max %d", name, len(v.Limbs), maxLen)
			}
			padded := make([]uint64, maxLen)
			copy(padded, v.Limbs)
			out.values[name] = Value{Kind: KindLimbs, Limbs: padded}
		default:
			return nil, fmt.Errorf("signal %q is not a vector type eligible for padding", name)
		}
	}

	return out, nil
}

// Get returns the named signal and whether it exists, for tests and for the
// witness-assignment step.
func (p *Padded) Get(name string) (Value, bool) {
	v, ok := p.values[name]
	return v, ok
}

// Names returns all registered signal names in insertion order.
func (p *Padded) Names() []string {
	return append([]string(nil), p.order...)
}

// ToJSONValue renders every signal as a JSON-serializable value, matching
// the shape the original circuit's witness-generation step expects:
// byte/bool/limb vectors become arrays of decimal strings, scalars become
// single decimal strings.
func (p *Padded) ToJSONValue() map[string]any {
	out := make(map[string]any, len(p.values))
	for name, v := range p.values {
		switch v.Kind {
		case KindBytes:
			arr := make([]string, len(v.Bytes))
			for i, b := range v.Bytes {
				arr[i] = fmt.Sprintf("%d", b)
			}
			out[name] = arr
		case KindBools:
			arr := make([]string, len(v.Bools))
			for i, bo := range v.Bools {
				if bo {
					arr[i] = "1"
				} else {
					arr[i] = "0"
				}
			}
			out[name] = arr
		case KindU64:
			out[name] = fmt.Sprintf("%d", v.U64)
		case KindFr:
			out[name] = v.Fr.String()
		case KindFrs:
			arr := make([]string, len(v.Frs))
			for i, f := range v.Frs {
				arr[i] = f.String()
			}
			out[name] = arr
		case KindLimbs:
			arr := make([]string, len(v.Limbs))
			for i, l := range v.Limbs {
				arr[i] = fmt.Sprintf("%d", l)
			}
			out[name] = arr
		}
	}
	return out
}
