package req

import "strings"

// A Param is a single key and value taken from a request.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered set of Param, looked up ignoring case.
//
// Keys keep the case they arrived in.
type Params []Param

// Get returns the value of the first Param matching key, or "".
func (p Params) Get(key string) string {
	v, _ := p.Lookup(key)
	return v
}

// Lookup returns the value of the first Param matching key and whether one exists.
func (p Params) Lookup(key string) (string, bool) {
	for _, param := range p {
		if strings.EqualFold(param.Key, key) {
			return param.Value, true
		}
	}

	return "", false
}

// Values returns the values of every Param matching key, in order.
func (p Params) Values(key string) []string {
	var vals []string
	for _, param := range p {
		if strings.EqualFold(param.Key, key) {
			vals = append(vals, param.Value)
		}
	}

	return vals
}

// Keys returns each key in order.
func (p Params) Keys() []string {
	keys := make([]string, 0, len(p))
	for _, param := range p {
		keys = append(keys, param.Key)
	}

	return keys
}

// Map flattens p, keeping the first value for keys appearing more than once.
func (p Params) Map() map[string]string {
	m := make(map[string]string, len(p))
	for _, param := range p {
		if _, ok := m[param.Key]; !ok {
			m[param.Key] = param.Value
		}
	}

	return m
}
