package vm

import "testing"

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{&NameError{Name: "foo"}, `no such name "foo"`},
		{&RedeclarationError{Name: "foo"}, `already declared name "foo"`},
		{&TypeError{Got: TagInteger}, "not callable: INTEGER"},
		{&ArityError{Expected: 2, Got: 1}, "expected 2 args but got 1"},
		{&MalformedBytecodeError{Reason: "bad jump"}, "malformed bytecode: bad jump"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("Error() = %q, want %q", got, c.want)
		}
	}
}
