package ast

// Source is a whole program: fields first, then methods. Structs are parsed
// but not part of the executable language.
type Source struct {
	nodeImpl

	Fields  []*Field  `json:"fields"`
	Methods []*Method `json:"methods"`
	Structs []*Struct `json:"structs,omitempty"`
}

func NewSource(fields []*Field, methods []*Method, structs []*Struct) *Source {
	return &Source{nodeImpl: newNodeImpl(NodeSource), Fields: fields, Methods: methods, Structs: structs}
}

// Field is a top-level `LET name: Type (= value)?;`.
type Field struct {
	nodeImpl

	Name     string         `json:"name"`
	TypeName *TypeReference `json:"typeName,omitempty"`
	Value    Expression     `json:"value,omitempty"`
}

func NewField(name string, typeName *TypeReference, value Expression) *Field {
	return &Field{nodeImpl: newNodeImpl(NodeField), Name: name, TypeName: typeName, Value: value}
}

type Parameter struct {
	nodeImpl

	Name     string         `json:"name"`
	TypeName *TypeReference `json:"typeName"`
}

func NewParameter(name string, typeName *TypeReference) *Parameter {
	return &Parameter{nodeImpl: newNodeImpl(NodeParameter), Name: name, TypeName: typeName}
}

// Method is `DEF name(params): ReturnType DO body END`. ReturnType is nil when
// omitted, which declares a Nil result.
type Method struct {
	nodeImpl

	Name       string         `json:"name"`
	Parameters []*Parameter   `json:"parameters"`
	ReturnType *TypeReference `json:"returnType,omitempty"`
	Body       []Statement    `json:"body"`
}

func NewMethod(name string, parameters []*Parameter, returnType *TypeReference, body []Statement) *Method {
	return &Method{nodeImpl: newNodeImpl(NodeMethod), Name: name, Parameters: parameters, ReturnType: returnType, Body: body}
}

// ParameterNames lists the formal parameter names in declaration order.
func (m *Method) ParameterNames() []string {
	names := make([]string, 0, len(m.Parameters))
	for _, param := range m.Parameters {
		if param == nil {
			continue
		}
		names = append(names, param.Name)
	}
	return names
}

// Struct is `DEF TYPE Name: (field | method)* END`.
type Struct struct {
	nodeImpl

	Name    string    `json:"name"`
	Fields  []*Field  `json:"fields"`
	Methods []*Method `json:"methods"`
}

func NewStruct(name string, fields []*Field, methods []*Method) *Struct {
	return &Struct{nodeImpl: newNodeImpl(NodeStruct), Name: name, Fields: fields, Methods: methods}
}
