package vm

import "testing"

func TestValueTruthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"nil", Nil, false},
		{"zero integer", Integer(0), true},
		{"negative integer", Integer(-1), true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("%s: Truthy() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestValueDebugString(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Nil, "NIL"},
		{Integer(0), "INTEGER(0)"},
		{Integer(-42), "INTEGER(-42)"},
	}
	for _, c := range cases {
		if got := c.v.DebugString(); got != c.want {
			t.Errorf("DebugString() = %q, want %q", got, c.want)
		}
	}
}

func TestValueIntPanicsOnWrongTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Int() on a non-INTEGER value did not panic")
		}
	}()
	Nil.Int()
}

func TestValueClosureRefPanicsOnWrongTag(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("closureRef() on a non-FUNCTION value did not panic")
		}
	}()
	Integer(1).closureRef()
}

func TestValueHeapRef(t *testing.T) {
	if _, ok := Nil.heapRef(); ok {
		t.Fatal("heapRef() on NIL returned ok=true")
	}
	if _, ok := Integer(5).heapRef(); ok {
		t.Fatal("heapRef() on INTEGER returned ok=true")
	}
}

func TestTagString(t *testing.T) {
	cases := map[Tag]string{
		TagNil:      "NIL",
		TagInteger:  "INTEGER",
		TagTable:    "TABLE",
		TagFunction: "FUNCTION",
	}
	for tag, want := range cases {
		if got := tag.String(); got != want {
			t.Errorf("Tag(%d).String() = %q, want %q", tag, got, want)
		}
	}
}
