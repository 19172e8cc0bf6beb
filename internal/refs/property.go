package refs

// PropertyKind distinguishes the three property shapes a Pandoc-style
// attribute brace can produce.
type PropertyKind int

const (
	PropertyID PropertyKind = iota
	PropertyClass
	PropertyAttribute
)

// Property is a tagged variant: Id(string), Class(string), or
// Attribute(key, value) where value is a dynamic scalar (string, integer,
// boolean, or list — modeled here as `any`, decoded by the properties
// package's grammar).
type Property struct {
	Kind  PropertyKind
	Value string // set for PropertyID and PropertyClass
	Key   string // set for PropertyAttribute
	Attr  any    // set for PropertyAttribute: string, int64, bool, or []string
}

func ID(value string) Property    { return Property{Kind: PropertyID, Value: value} }
func Class(value string) Property { return Property{Kind: PropertyClass, Value: value} }
func Attribute(key string, value any) Property {
	return Property{Kind: PropertyAttribute, Key: key, Attr: value}
}

// GetID returns the first Id property, if any.
func GetID(props []Property) (string, bool) {
	for _, p := range props {
		if p.Kind == PropertyID {
			return p.Value, true
		}
	}
	return "", false
}

// GetClasses returns every Class property value, in order.
func GetClasses(props []Property) []string {
	var out []string
	for _, p := range props {
		if p.Kind == PropertyClass {
			out = append(out, p.Value)
		}
	}
	return out
}

// GetAttribute returns the value of the first Attribute with the given key.
func GetAttribute(props []Property, key string) (any, bool) {
	for _, p := range props {
		if p.Kind == PropertyAttribute && p.Key == key {
			return p.Attr, true
		}
	}
	return nil, false
}

// GetAttributeString is GetAttribute narrowed to a string value.
func GetAttributeString(props []Property, key string) (string, bool) {
	v, ok := GetAttribute(props, key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}
