package jvser

import (
	"math/rand"
	"testing"

	"github.com/bracez/json/jvalue"
	"github.com/bracez/json/jvparse"
)

// randomValue builds a random value tree of depth <= maxDepth, covering
// all six variants, for the property-based round-trip check spec.md §8
// calls for.
func randomValue(r *rand.Rand, maxDepth int) jvalue.Value {
	kind := r.Intn(6)
	if maxDepth <= 0 {
		kind = r.Intn(4) // no containers once depth is exhausted
	}
	switch kind {
	case 0:
		return jvalue.Null()
	case 1:
		return jvalue.Bool(r.Intn(2) == 0)
	case 2:
		return jvalue.Number(r.Float64()*2e6 - 1e6)
	case 3:
		return jvalue.String(randomString(r))
	case 4:
		n := r.Intn(4)
		elems := make([]jvalue.Value, n)
		for i := range elems {
			elems[i] = randomValue(r, maxDepth-1)
		}
		return jvalue.Array(elems...)
	default:
		n := r.Intn(4)
		pairs := make([]jvalue.KV, n)
		for i := range pairs {
			pairs[i] = jvalue.KV{Key: randomString(r), Value: randomValue(r, maxDepth-1)}
		}
		return jvalue.Object(pairs...)
	}
}

func randomString(r *rand.Rand) string {
	const alphabet = "abcdefghij \t\"\\"
	n := r.Intn(6)
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[r.Intn(len(alphabet))]
	}
	return string(b)
}

func TestRandomTreeRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(12345))
	for i := 0; i < 200; i++ {
		v := randomValue(r, 5)
		out := Serialize(v)
		parsed := jvparse.Parse([]byte(out))
		if !parsed.Status().OK() {
			t.Fatalf("round %d: re-parsing %q failed: %v", i, out, parsed.Status())
		}
		if !v.Equal(parsed) {
			t.Fatalf("round %d: round-trip mismatch, serialized as %q", i, out)
		}
	}
}

func TestSerializeLiterals(t *testing.T) {
	cases := []struct {
		v    jvalue.Value
		want string
	}{
		{jvalue.Null(), "null"},
		{jvalue.Bool(true), "true"},
		{jvalue.Bool(false), "false"},
		{jvalue.Number(1), "1"},
		{jvalue.String("hi"), `"hi"`},
	}
	for _, tc := range cases {
		if got := Serialize(tc.v); got != tc.want {
			t.Errorf("Serialize(%v) = %q, want %q", tc.v.Kind(), got, tc.want)
		}
	}
}

func TestSerializeArrayHasNoSpaces(t *testing.T) {
	v := jvparse.Parse([]byte("[1,2,3]"))
	if got, want := Serialize(v), "[1,2,3]"; got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeObjectKeysSorted(t *testing.T) {
	v := jvalue.Object(jvalue.KV{Key: "b", Value: jvalue.Int(2)}, jvalue.KV{Key: "a", Value: jvalue.Int(1)})
	if got, want := Serialize(v), `{"a":1,"b":2}`; got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeStringEscaping(t *testing.T) {
	cases := []struct {
		s    string
		want string
	}{
		{"a\"b", `"a\"b"`},
		{"a\\b", `"a\\b"`},
		{"a\bb", `"a\bb"`},
		{"a\fb", `"a\fb"`},
		{"a\nb", `"a\nb"`},
		{"a\rb", `"a\rb"`},
		{"a\tb", `"a\tb"`},
		{"a\x01b", `"a\u0001b"`},
		{"café", "\"café\""}, // high-bit bytes pass through unescaped
	}
	for _, tc := range cases {
		if got := Serialize(jvalue.String(tc.s)); got != tc.want {
			t.Errorf("Serialize(%q) = %q, want %q", tc.s, got, tc.want)
		}
	}
}

func TestSerializeControlCharHexIsUppercase(t *testing.T) {
	got := Serialize(jvalue.String("\x1f"))
	want := `"\u001F"`
	if got != want {
		t.Errorf("Serialize(0x1F) = %q, want %q", got, want)
	}
}

func TestSerializeNumberShortestRoundTrip(t *testing.T) {
	v := jvparse.Parse([]byte("1.0000000000000002"))
	if got, want := Serialize(v), "1.0000000000000002"; got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	v := jvalue.Object(
		jvalue.KV{Key: "z", Value: jvalue.Int(1)},
		jvalue.KV{Key: "a", Value: jvalue.Array(jvalue.Int(1), jvalue.Int(2))},
	)
	first := Serialize(v)
	for i := 0; i < 5; i++ {
		if got := Serialize(v); got != first {
			t.Fatalf("Serialize is not deterministic: got %q, first was %q", got, first)
		}
	}
}

func TestRoundTripParseSerializeParse(t *testing.T) {
	inputs := []string{
		`null`, `true`, `false`, `0`, `-1.5`, `"hi"`,
		`[1,2,3]`, `{"a":1,"b":[true,null,"x"]}`,
		`{"nested":{"deep":[1,2,{"x":"y"}]}}`,
	}
	for _, in := range inputs {
		v1 := jvparse.Parse([]byte(in))
		if !v1.Status().OK() {
			t.Fatalf("parse(%q) failed: %v", in, v1.Status())
		}
		out := Serialize(v1)
		v2 := jvparse.Parse([]byte(out))
		if !v2.Status().OK() {
			t.Fatalf("re-parse of %q failed: %v", out, v2.Status())
		}
		if !v1.Equal(v2) {
			t.Errorf("round-trip mismatch for %q: serialized as %q", in, out)
		}
	}
}
