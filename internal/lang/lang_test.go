package lang

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davetashner/dupscan/internal/model"
)

func tokenTexts(f *model.SourceFile) []string {
	out := make([]string, len(f.Tokens))
	for i, tok := range f.Tokens {
		out[i] = tok.Text
	}
	return out
}

func bindingNames(f *model.SourceFile) []string {
	var out []string
	for _, b := range f.Bindings {
		out = append(out, b.Name)
	}
	return out
}

func TestPython_StripsComments(t *testing.T) {
	src := "x = 1  # trailing note\n# whole-line comment\ny = x\n"
	f, err := NewPython().Tokenize(context.Background(), "a.py", []byte(src))
	require.NoError(t, err)

	assert.Equal(t, []string{"x", "=", "1", "y", "=", "x"}, tokenTexts(f))
	assert.Equal(t, 1, f.Tokens[0].Line)
	assert.Equal(t, 3, f.Tokens[3].Line)
	assert.Equal(t, model.LangPython, f.Language)
}

func TestPython_StringIsOneToken(t *testing.T) {
	f, err := NewPython().Tokenize(context.Background(), "a.py", []byte("s = \"a   b\"\n"))
	require.NoError(t, err)
	require.Len(t, f.Tokens, 3)
	assert.Equal(t, `"a   b"`, f.Tokens[2].Text)
	assert.Equal(t, model.KindLiteral, f.Tokens[2].Kind)
	assert.Equal(t, model.KindIdent, f.Tokens[0].Kind)
}

func TestPython_WhitespaceInvariance(t *testing.T) {
	a := "def f(a, b):\n    return a + b\n"
	b := "def  f( a,b ):   # comment\n\n    return a+b\n"
	fa, err := NewPython().Tokenize(context.Background(), "a.py", []byte(a))
	require.NoError(t, err)
	fb, err := NewPython().Tokenize(context.Background(), "b.py", []byte(b))
	require.NoError(t, err)
	assert.Equal(t, tokenTexts(fa), tokenTexts(fb))
}

func TestPython_SyntaxError(t *testing.T) {
	_, err := NewPython().Tokenize(context.Background(), "bad.py", []byte("def broken(:\n    pass\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestPython_TopLevelBindingsOnly(t *testing.T) {
	src := `MAX_RETRIES = 5
TIMEOUT: int = 30

class Config:
    INNER = 1

def f():
    LOCAL = 2
    return LOCAL
`
	f, err := NewPython().Tokenize(context.Background(), "c.py", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"MAX_RETRIES", "TIMEOUT"}, bindingNames(f))
	assert.Equal(t, "5", f.Bindings[0].Value)
	assert.Equal(t, 1, f.Bindings[0].Line)
	assert.Equal(t, 2, f.Bindings[1].Line)
}

func TestGo_ConstBindings(t *testing.T) {
	src := `package main

const Single = "x"

const (
	A    = 1
	B, C = 2, 3
)

var NotConst = 4

func f() {
	const Local = 5
}
`
	f, err := NewGo().Tokenize(context.Background(), "c.go", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"Single", "A", "B", "C"}, bindingNames(f))
	assert.Equal(t, `"x"`, f.Bindings[0].Value)
	assert.Equal(t, "3", f.Bindings[3].Value)
}

func TestGo_NewlinesAreNotTokens(t *testing.T) {
	f, err := NewGo().Tokenize(context.Background(), "m.go", []byte("package main\n\n// doc\nvar x = 1\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"package", "main", "var", "x", "=", "1"}, tokenTexts(f))
	assert.Equal(t, model.KindKeyword, f.Tokens[0].Kind)
}

func TestJavaScript_ConstBindings(t *testing.T) {
	src := `export const API_URL = "https://example.test";
const local = 1;
let MUTABLE = 2;
function f() {
  const INNER = 3;
  return INNER;
}
`
	f, err := NewJavaScript().Tokenize(context.Background(), "c.js", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"API_URL", "local"}, bindingNames(f))
	assert.Equal(t, `"https://example.test"`, f.Bindings[0].Value)
}

func TestTypeScript_ConstBindings(t *testing.T) {
	src := "export const MAX_ITEMS: number = 10;\n"
	f, err := NewTypeScript().Tokenize(context.Background(), "c.ts", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"MAX_ITEMS"}, bindingNames(f))
	assert.Equal(t, "10", f.Bindings[0].Value)
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	tok, ok := r.ForPath("pkg/Module.PY")
	require.True(t, ok)
	assert.Equal(t, model.LangPython, tok.Language())

	tok, ok = r.ForPath("web/app.tsx")
	require.True(t, ok)
	assert.Equal(t, model.LangTypeScript, tok.Language())

	assert.False(t, r.Supports("README.md"))
	assert.Contains(t, r.Extensions(), ".go")

	_, err := r.Tokenize(context.Background(), "notes.txt", []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupported)
}
