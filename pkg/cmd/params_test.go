package cmd

import (
	"errors"
	"testing"
)

func TestTokenize(t *testing.T) {
	name, tokens := Tokenize("  play   song  extra ")
	if name != "play" {
		t.Fatalf("name = %q, want play", name)
	}
	if len(tokens) != 2 || tokens[0] != "song" || tokens[1] != "extra" {
		t.Fatalf("tokens = %q", tokens)
	}

	name, tokens = Tokenize("   ")
	if name != "" || tokens != nil {
		t.Fatalf("blank line gave %q %q", name, tokens)
	}
}

func TestCoerce(t *testing.T) {
	roll := []Param{{Name: "max_val", Type: Int, Required: true}}
	play := []Param{{Name: "name", Type: String, Required: true}}

	tests := []struct {
		name    string
		params  []Param
		tokens  []string
		check   func(t *testing.T, a Args)
		wantErr error
	}{
		{
			name:   "int",
			params: roll,
			tokens: []string{"-5"},
			check: func(t *testing.T, a Args) {
				if a.Int("max_val") != -5 {
					t.Fatalf("max_val = %d", a.Int("max_val"))
				}
			},
		},
		{
			name:    "bad int",
			params:  roll,
			tokens:  []string{"abc"},
			wantErr: &BadArgumentError{},
		},
		{
			name:    "missing",
			params:  roll,
			wantErr: &MissingArgumentError{},
		},
		{
			name:   "string takes one token",
			params: play,
			tokens: []string{"my", "song"},
			check: func(t *testing.T, a Args) {
				if a.String("name") != "my" {
					t.Fatalf("name = %q", a.String("name"))
				}
			},
		},
		{
			name:   "optional missing",
			params: []Param{{Name: "n", Type: Int}},
			check: func(t *testing.T, a Args) {
				if _, ok := a["n"]; ok {
					t.Fatal("optional param should be absent")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := Coerce(tt.params, tt.tokens)
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				tt.check(t, args)
			case *BadArgumentError:
				if !errors.As(err, &want) {
					t.Fatalf("err = %v, want BadArgumentError", err)
				}
				if want.Token != tt.tokens[0] {
					t.Fatalf("token = %q, want %q", want.Token, tt.tokens[0])
				}
			case *MissingArgumentError:
				if !errors.As(err, &want) {
					t.Fatalf("err = %v, want MissingArgumentError", err)
				}
				if want.Param != tt.params[0].Name {
					t.Fatalf("param = %q", want.Param)
				}
			}
		})
	}
}

func TestArgumentErrorText(t *testing.T) {
	bad := &BadArgumentError{Param: "max_val", Type: Int, Token: "x1"}
	if got, want := bad.Error(), `argument <max_val> must be an integer, got "x1"`; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	missing := &MissingArgumentError{Param: "name"}
	if got, want := missing.Error(), "name is a required argument that is missing."; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
