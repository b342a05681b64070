package tileset

import (
	"fmt"
	"sort"
	"strconv"
)

const (
	// Property types
	// see doc.mapeditor.org/en/stable/reference/tmx-map-format/#properties
	PropString = "string"
	PropInt    = "int"
	PropFloat  = "float"
	PropBool   = "bool"
)

// Properties is a more straight forward []*Property (used by the raw XML)
// that handles types a bit more gracefully.
type Properties struct {
	ints    map[string]int
	floats  map[string]float64
	strings map[string]string
	bools   map[string]bool
}

// NewProperties returns an empty properties
func NewProperties() *Properties {
	return &Properties{
		ints:    map[string]int{},
		floats:  map[string]float64{},
		strings: map[string]string{},
		bools:   map[string]bool{},
	}
}

// Merge properties `o` into this properties
func (p *Properties) Merge(o *Properties) *Properties {
	if o == nil {
		return p
	}
	for k, v := range o.ints {
		p.ints[k] = v
	}
	for k, v := range o.floats {
		p.floats[k] = v
	}
	for k, v := range o.strings {
		p.strings[k] = v
	}
	for k, v := range o.bools {
		p.bools[k] = v
	}
	return p
}

// Len returns the number of set properties
func (p *Properties) Len() int {
	return len(p.ints) + len(p.floats) + len(p.strings) + len(p.bools)
}

// Bools returns every bool property as Flags.
func (p *Properties) Bools() Flags {
	f := Flags{}
	for k, v := range p.bools {
		f[k] = v
	}
	return f
}

// toList mutates our nicer properties wrapper back into []*Property understood
// by the XML encoder. Output is sorted by name so encoding is stable.
func (p *Properties) toList() []*Property {
	ps := []*Property{}
	for k, v := range p.ints {
		ps = append(ps, &Property{
			Name:  k,
			Value: fmt.Sprintf("%d", v),
			Type:  PropInt,
		})
	}
	for k, v := range p.floats {
		ps = append(ps, &Property{
			Name:  k,
			Value: strconv.FormatFloat(v, 'g', -1, 64),
			Type:  PropFloat,
		})
	}
	for k, v := range p.bools {
		ps = append(ps, &Property{
			Name:  k,
			Value: fmt.Sprintf("%v", v),
			Type:  PropBool,
		})
	}
	for k, v := range p.strings {
		ps = append(ps, &Property{
			Name:  k,
			Value: v,
		})
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].Name < ps[j].Name })
	return ps
}

// newPropertiesFromList turns the XML []Property into our nicer properties
// wrapper struct.
// Values that fail to parse as their declared type are kept as strings.
func newPropertiesFromList(in []*Property) *Properties {
	ps := NewProperties()

	for _, i := range in {
		switch i.Type {
		case PropInt:
			v, err := strconv.ParseInt(i.Value, 10, 64)
			if err != nil {
				ps.SetString(i.Name, i.Value)
				continue
			}
			ps.SetInt(i.Name, int(v))
		case PropFloat:
			v, err := strconv.ParseFloat(i.Value, 64)
			if err != nil {
				ps.SetString(i.Name, i.Value)
				continue
			}
			ps.SetFloat(i.Name, v)
		case PropBool:
			ps.SetBool(i.Name, i.Value == "true")
		default:
			// color, file, object, class etc
			ps.SetString(i.Name, i.Value)
		}
	}

	return ps
}

func (p *Properties) String(key string) (string, bool) {
	v, ok := p.strings[key]
	return v, ok
}

func (p *Properties) SetString(key, value string) {
	p.clear(key)
	p.strings[key] = value
}

func (p *Properties) Int(key string) (int, bool) {
	v, ok := p.ints[key]
	return v, ok
}

func (p *Properties) SetInt(key string, value int) {
	p.clear(key)
	p.ints[key] = value
}

func (p *Properties) Float(key string) (float64, bool) {
	v, ok := p.floats[key]
	return v, ok
}

func (p *Properties) SetFloat(key string, value float64) {
	p.clear(key)
	p.floats[key] = value
}

func (p *Properties) Bool(key string) (bool, bool) {
	v, ok := p.bools[key]
	return v, ok
}

func (p *Properties) SetBool(key string, value bool) {
	p.clear(key)
	p.bools[key] = value
}

// clear removes `key` whatever type it was set as
func (p *Properties) clear(key string) {
	delete(p.ints, key)
	delete(p.floats, key)
	delete(p.strings, key)
	delete(p.bools, key)
}

// Flags is the set of named boolean attributes on a tile (or shape).
// Explicit false values are kept.
type Flags map[string]bool

// Has returns true only if the flag is present and set to true
func (f Flags) Has(name string) bool {
	return f[name]
}

// Names returns the names of all flags set to true, sorted.
func (f Flags) Names() []string {
	names := []string{}
	for k, v := range f {
		if v {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// filter returns a copy of f holding only names for which keep returns true.
func (f Flags) filter(keep func(string) bool) Flags {
	out := Flags{}
	for k, v := range f {
		if keep(k) {
			out[k] = v
		}
	}
	return out
}
