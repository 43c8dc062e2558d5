package manifest

// Parameter describes the name and type of a method parameter or event
// field.
type Parameter struct {
	Name string    `json:"name"`
	Type ParamType `json:"type"`
}

// NewParameter builds a Parameter of the given name and type.
func NewParameter(name string, typ ParamType) Parameter {
	return Parameter{Name: name, Type: typ}
}
