package req

import (
	"fmt"

	"github.com/dekarrin/rezi"
)

// MarshalBinary converts r into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (r Requirement) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncInt(int(r.Source.Kind))...)
	data = append(data, rezi.EncInt(r.Source.Value)...)
	data = append(data, rezi.EncInt(int(r.Range))...)
	data = append(data, rezi.EncBool(r.Present)...)
	data = append(data, rezi.EncBool(r.Survives)...)
	data = append(data, rezi.EncBool(r.Quiet)...)

	return data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into r.
// All of r's fields will be replaced by the fields decoded from data.
func (r *Requirement) UnmarshalBinary(data []byte) error {
	var n int
	var err error

	var kind int
	kind, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("kind: %w", err)
	}
	data = data[n:]

	var value int
	value, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	data = data[n:]

	var rng int
	rng, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("range: %w", err)
	}
	data = data[n:]

	var present, survives, quiet bool
	present, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("present: %w", err)
	}
	data = data[n:]

	survives, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("survives: %w", err)
	}
	data = data[n:]

	quiet, _, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("quiet: %w", err)
	}

	r.Source = Universal{Kind: Kind(kind), Value: value}
	r.Range = Range(rng)
	r.Present = present
	r.Survives = survives
	r.Quiet = quiet

	return nil
}

// MarshalBinary converts v into a slice of bytes that can be decoded with
// UnmarshalBinary.
func (v Vector) MarshalBinary() ([]byte, error) {
	data := rezi.EncInt(len(v))
	for i := range v {
		data = append(data, rezi.EncBinary(v[i])...)
	}
	return data, nil
}

// UnmarshalBinary decodes a slice of bytes created by MarshalBinary into v.
func (v *Vector) UnmarshalBinary(data []byte) error {
	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}
	data = data[n:]

	vec := make(Vector, count)
	for i := 0; i < count; i++ {
		n, err = rezi.DecBinary(data, &vec[i])
		if err != nil {
			return fmt.Errorf("requirement %d: %w", i, err)
		}
		data = data[n:]
	}

	*v = vec
	return nil
}
