package properties

import (
	"reflect"
	"testing"

	"github.com/entangled/entangled-go/internal/refs"
)

func TestParseClassIdAndQuotedAttribute(t *testing.T) {
	t.Parallel()
	got := Parse(`.python #hello file="hello.py"`)
	want := []refs.Property{
		refs.Class("python"),
		refs.ID("hello"),
		refs.Attribute("file", "hello.py"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse() = %#v, want %#v", got, want)
	}
}

func TestParseBarewordIntegerInference(t *testing.T) {
	t.Parallel()
	got := Parse(`.python mode=0755`)
	if len(got) != 2 {
		t.Fatalf("Parse() = %#v, want 2 properties", got)
	}
	v, ok := refs.GetAttribute(got, "mode")
	if !ok {
		t.Fatalf("missing mode attribute")
	}
	if _, isInt := v.(int64); !isInt {
		t.Fatalf("bareword numeric mode = %T, want int64", v)
	}
}

func TestParseQuotedValueNeverInferred(t *testing.T) {
	t.Parallel()
	got := Parse(`mode="0755"`)
	v, ok := refs.GetAttribute(got, "mode")
	if !ok {
		t.Fatalf("missing mode attribute")
	}
	if s, isStr := v.(string); !isStr || s != "0755" {
		t.Fatalf("quoted mode = %#v, want string \"0755\"", v)
	}
}

func TestParseBooleanBareword(t *testing.T) {
	t.Parallel()
	got := Parse(`collect=true`)
	v, _ := refs.GetAttribute(got, "collect")
	if b, ok := v.(bool); !ok || !b {
		t.Fatalf("collect = %#v, want true", v)
	}
}

func TestParseListBareword(t *testing.T) {
	t.Parallel()
	got := Parse(`deps=[a,b,c]`)
	v, _ := refs.GetAttribute(got, "deps")
	list, ok := v.([]string)
	if !ok || len(list) != 3 || list[1] != "b" {
		t.Fatalf("deps = %#v, want [a b c]", v)
	}
}

func TestParseEmptyInputYieldsNoProperties(t *testing.T) {
	t.Parallel()
	got := Parse("   ")
	if len(got) != 0 {
		t.Fatalf("Parse(empty) = %#v, want none", got)
	}
}
