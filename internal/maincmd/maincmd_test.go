package maincmd

import "testing"

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cmd     Cmd
		args    []string
		wantErr bool
	}{
		{name: "help alone", cmd: Cmd{Help: true}, wantErr: false},
		{name: "help with source", cmd: Cmd{Help: true, Source: "a.xml"}, wantErr: true},
		{name: "help with input", cmd: Cmd{Help: true, Input: "a.txt"}, wantErr: true},
		{name: "source only", cmd: Cmd{Source: "a.xml"}, wantErr: false},
		{name: "input only", cmd: Cmd{Input: "a.txt"}, wantErr: false},
		{name: "source and input", cmd: Cmd{Source: "a.xml", Input: "a.txt"}, wantErr: false},
		{name: "neither", cmd: Cmd{}, wantErr: true},
		{name: "positional arg", cmd: Cmd{Source: "a.xml"}, args: []string{"extra"}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := tc.cmd
			c.SetArgs(tc.args)
			err := c.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected an error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}
