// Package ir models the compiler's input: a parsed contract class tree,
// already structured into classes, fields and methods the way a JVM
// class file's constant pool and code attributes would yield, rather
// than the raw class-file byte format itself.
package ir

// Type is a source-level value type, projected down to the handful of
// shapes NeoVM and the manifest ABI understand.
type Type int

const (
	TAny Type = iota
	TVoid
	TInt
	TLong
	TBoolean
	TString
	TByteArray
	THash160
	THash256
	TPublicKey
	TSignature
	TArray
	TMap
	// TObject names a user-defined class by Class.Name; Object is
	// TObject{""} and matches anything for ancestor checks.
	TObject
)

// ValueType pairs a Type with, for TObject, the class it names.
type ValueType struct {
	Kind      Type
	ClassName string
}

// Param is one method parameter or event field.
type Param struct {
	Name string
	Type ValueType
}

// Annotation is a generic recognized-at-compile-time marker read off a
// class, field or method; pragma.Recognize interprets its Name/Args
// against the schemas the compiler understands.
type Annotation struct {
	Name string
	Args map[string]any
}

// Field is a class field. Instance fields pass the compiler's
// forbidden-instance-state check only on @Struct classes; Slot is
// assigned by the compiler during lowering, not supplied by the caller.
type Field struct {
	Name        string
	Type        ValueType
	Static      bool
	Annotations []Annotation
	Slot        int

	// EventParams carries the declared argument names/types of an
	// Event-typed field's generic carrier (EventNArgs<T1,...,TN>),
	// already resolved by the reader that produced this IR since Java
	// generic type arguments aren't otherwise representable here. Empty
	// for non-Event fields.
	EventParams []Param
}

// LocalVar names a method's local-variable-table entry for diagnostics;
// the compiler assigns actual slot numbers by declaration order.
type LocalVar struct {
	Name string
	Type ValueType
}

// TryRegion describes one exception handler: [Start, End) instructions
// (by index into Method.Instructions) are guarded, and control transfers
// to HandlerLabel with the thrown value on the stack when one of them
// throws.
type TryRegion struct {
	StartIndex   int
	EndIndex     int
	HandlerLabel string
	CaughtVar    int // local slot the handler binds the exception to, -1 if unused

	// HandlerEndIndex is the exclusive end (by index into
	// Method.Instructions) of the handler's own instructions. Both the
	// guarded body's and the handler's closing ENDTRY jump to this
	// point, so normal completion of either one skips the other.
	HandlerEndIndex int
}

// Method is one class method. Public static methods on the contract's
// designated root class are exported in the manifest; every other
// static method is lowered but kept private.
type Method struct {
	Name         string
	Params       []Param
	Return       ValueType
	Public       bool
	Static       bool
	Safe         bool // @Safe: method makes no state changes, per manifest ABI
	Instructions []Instruction
	Locals       []LocalVar
	TryRegions   []TryRegion
	Annotations  []Annotation
	LineOf       map[int]int // instruction index -> source line, best-effort
}

// Class is one compilation unit: the contract root or a user-defined
// helper/@Struct type it references.
type Class struct {
	Name        string
	Super       string // "" or "java.lang.Object" for no meaningful supertype
	IsStruct    bool   // carries @Struct
	Fields      []Field
	Methods     []Method
	Annotations []Annotation
}

// Module is the whole compilation unit: the contract's root class plus
// every transitively referenced user class.
type Module struct {
	// Root is the index into Classes of the contract's designated
	// entry class.
	Root    int
	Classes []Class
}

// RootClass returns the contract's entry class.
func (m *Module) RootClass() *Class {
	return &m.Classes[m.Root]
}

// FindClass looks up a class by name, or returns nil.
func (m *Module) FindClass(name string) *Class {
	for i := range m.Classes {
		if m.Classes[i].Name == name {
			return &m.Classes[i]
		}
	}
	return nil
}

// FindMethod looks up a static method by name and arity on the named
// class, or returns nil. arity of -1 matches any.
func (c *Class) FindMethod(name string, arity int) *Method {
	for i := range c.Methods {
		if c.Methods[i].Name == name && (arity == -1 || len(c.Methods[i].Params) == arity) {
			return &c.Methods[i]
		}
	}
	return nil
}
