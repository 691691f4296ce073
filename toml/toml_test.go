package toml

import (
	"errors"
	"math"
	"strings"
	"testing"
)

// TestUnmarshal_Complex verifies the full pipeline from TOML text to struct
func TestUnmarshal_Complex(t *testing.T) {
	input := []byte(`
title = "Skirmish Config"

[physics]
gravity = [0, -30]
fixed_dt = 0.016
max_ticks = 5

[owner]
name = "Admin"
id = 55

[[spawn]]
type = "player"
x = 2
y = 3

[[spawn]]
type = "crate"
x = 6
y = 3
`)

	type Physics struct {
		Gravity  [2]float64 `toml:"gravity"`
		FixedDT  float64    `toml:"fixed_dt"`
		MaxTicks int        `toml:"max_ticks"`
	}
	type Spawn struct {
		Type string  `toml:"type"`
		X    float64 `toml:"x"`
		Y    float64 `toml:"y"`
	}
	type Config struct {
		Title   string         `toml:"title"`
		Physics Physics        `toml:"physics"`
		Owner   map[string]any `toml:"owner"`
		Spawns  []Spawn        `toml:"spawn"`
	}

	var cfg Config
	if err := Unmarshal(input, &cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg.Title != "Skirmish Config" {
		t.Errorf("Expected title, got %q", cfg.Title)
	}
	if cfg.Physics.Gravity != [2]float64{0, -30} {
		t.Errorf("Expected gravity (0,-30), got %v", cfg.Physics.Gravity)
	}
	if cfg.Physics.FixedDT != 0.016 || cfg.Physics.MaxTicks != 5 {
		t.Errorf("Expected physics 0.016/5, got %v/%d", cfg.Physics.FixedDT, cfg.Physics.MaxTicks)
	}
	if id, ok := cfg.Owner["id"].(int64); !ok || id != 55 {
		t.Errorf("Expected owner id int64 55, got %v", cfg.Owner["id"])
	}
	if len(cfg.Spawns) != 2 {
		t.Fatalf("Expected 2 spawns, got %d", len(cfg.Spawns))
	}
	if cfg.Spawns[1].Type != "crate" || cfg.Spawns[1].X != 6 {
		t.Errorf("Expected second spawn crate at x=6, got %+v", cfg.Spawns[1])
	}
}

func TestUnmarshal_Literals(t *testing.T) {
	input := []byte(`
hex = 0xff
big = 1_000_000
neg = -42
exp = 6e-3
path = 'C:\levels\one'
esc = "a\tb\u00e9"
pinf = inf
ninf = -inf
notnum = nan
`)
	var out map[string]any
	if err := Unmarshal(input, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	ints := map[string]int64{"hex": 255, "big": 1000000, "neg": -42}
	for k, want := range ints {
		if got, ok := out[k].(int64); !ok || got != want {
			t.Errorf("%s: expected %d, got %v", k, want, out[k])
		}
	}
	if got := out["exp"].(float64); got != 0.006 {
		t.Errorf("Expected 0.006, got %v", got)
	}
	if got := out["path"].(string); got != `C:\levels\one` {
		t.Errorf("Expected literal string untouched, got %q", got)
	}
	if got := out["esc"].(string); got != "a\tb\u00e9" {
		t.Errorf("Expected escapes decoded, got %q", got)
	}
	if got := out["pinf"].(float64); !math.IsInf(got, 1) {
		t.Errorf("Expected +inf, got %v", got)
	}
	if got := out["ninf"].(float64); !math.IsInf(got, -1) {
		t.Errorf("Expected -inf, got %v", got)
	}
	if got := out["notnum"].(float64); !math.IsNaN(got) {
		t.Errorf("Expected nan, got %v", got)
	}
}

func TestParse_MultilineArrayAndComments(t *testing.T) {
	input := []byte(`
rows = [
  "....", # top
  "####",
]
inline = { a = 1, b.c = "x" }
`)
	var out map[string]any
	if err := Unmarshal(input, &out); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	rows := out["rows"].([]any)
	if len(rows) != 2 || rows[1] != "####" {
		t.Errorf("Expected 2 rows, got %v", rows)
	}
	inline := out["inline"].(map[string]any)
	if inline["b"].(map[string]any)["c"] != "x" {
		t.Errorf("Expected dotted key inside inline table, got %v", inline)
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	_, err := NewParser([]byte("a = 1\nb = = 2\n")).Parse()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ParseError, got %v", err)
	}
	if pe.Line != 2 || pe.Col != 5 {
		t.Errorf("Expected line 2 col 5, got line %d col %d", pe.Line, pe.Col)
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"duplicate key":       "a = 1\na = 2\n",
		"duplicate table":     "[t]\nx = 1\n[t]\ny = 2\n",
		"unterminated string": "a = \"open\n",
		"leading zero":        "a = 012\n",
		"overflow":            "a = 99999999999999999999\n",
		"trailing garbage":    "a = 1 2\n",
		"bad escape":          `a = "\q"` + "\n",
		"table over value":    "a = 1\n[a]\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewParser([]byte(input)).Parse(); err == nil {
				t.Errorf("Expected error for %q", input)
			}
		})
	}
}

func TestParse_ArrayTableSubtables(t *testing.T) {
	input := []byte(`
[[spawn]]
type = "a"
[spawn.components]
hp = 1

[[spawn]]
type = "b"
[spawn.components]
hp = 2
`)
	out, err := NewParser(input).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	spawns := out["spawn"].([]map[string]any)
	if len(spawns) != 2 {
		t.Fatalf("Expected 2 spawns, got %d", len(spawns))
	}
	if hp := spawns[1]["components"].(map[string]any)["hp"]; hp != int64(2) {
		t.Errorf("Expected second spawn hp 2, got %v", hp)
	}
}

func TestUnmarshalStrict_UnknownField(t *testing.T) {
	type Physics struct {
		Gravity float64 `toml:"gravity"`
	}
	type Config struct {
		Physics Physics `toml:"physics"`
	}

	input := []byte("[physics]\ngravty = 1\n")

	var lax Config
	if err := Unmarshal(input, &lax); err != nil {
		t.Errorf("Expected lax decode to ignore unknown keys, got %v", err)
	}

	var strict Config
	err := UnmarshalStrict(input, &strict)
	var ue *UnknownFieldError
	if !errors.As(err, &ue) {
		t.Fatalf("Expected *UnknownFieldError, got %v", err)
	}
	if ue.Path != "physics" || ue.Field != "gravty" {
		t.Errorf("Expected physics/gravty, got %s/%s", ue.Path, ue.Field)
	}
}

func TestDecode_NumericConversions(t *testing.T) {
	type Target struct {
		N int     `toml:"n"`
		U uint8   `toml:"u"`
		F float32 `toml:"f"`
	}

	var ok Target
	if err := Unmarshal([]byte("n = 2.0\nu = 200\nf = 3\n"), &ok); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if ok.N != 2 || ok.U != 200 || ok.F != 3 {
		t.Errorf("Expected 2/200/3, got %+v", ok)
	}

	bad := []string{"n = 1.5\n", "u = 300\n", "u = -1\n", "n = \"x\"\n"}
	for _, in := range bad {
		var tgt Target
		if err := Unmarshal([]byte(in), &tgt); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}

func TestDecode_FixedArrayLength(t *testing.T) {
	var out struct {
		V [2]float64 `toml:"v"`
	}
	err := Unmarshal([]byte("v = [1, 2, 3]\n"), &out)
	if err == nil || !strings.Contains(err.Error(), "v") {
		t.Errorf("Expected length error naming v, got %v", err)
	}
}

func TestDecode_SkipsUnexported(t *testing.T) {
	type Target struct {
		Public  string `toml:"public"`
		private string
	}
	var tgt Target
	if err := Unmarshal([]byte("public = \"a\"\nprivate = \"b\"\n"), &tgt); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if tgt.Public != "a" || tgt.private != "" {
		t.Errorf("Expected only public set, got %+v", tgt)
	}
}

func TestMarshal_DeclarationOrder(t *testing.T) {
	type Doc struct {
		Zeta  int        `toml:"zeta"`
		Alpha string     `toml:"alpha"`
		Vec   [2]float64 `toml:"vec"`
		Inf   float64    `toml:"inf_value"`
	}
	b, err := Marshal(Doc{Zeta: 1, Alpha: "a", Vec: [2]float64{0.5, -2}, Inf: math.Inf(1)})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := "zeta = 1\nalpha = \"a\"\nvec = [0.5, -2.0]\ninf_value = inf"
	if got := strings.TrimSpace(string(b)); got != want {
		t.Errorf("Mismatch:\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestMarshal_QuotedKeys(t *testing.T) {
	b, err := Marshal(map[string]any{"123a": 1, "key.dot": 2, "true": 3, "nan": 4})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := "\"123a\" = 1\n\"key.dot\" = 2\n\"nan\" = 4\n\"true\" = 3"
	if got := strings.TrimSpace(string(b)); got != want {
		t.Errorf("Mismatch:\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	type Legend struct {
		Kind  string  `toml:"kind"`
		Angle float64 `toml:"angle,omitempty"`
	}
	type Spawn struct {
		Type       string         `toml:"type"`
		X          float64        `toml:"x"`
		Components map[string]any `toml:"components,omitempty"`
	}
	type Level struct {
		Name   string            `toml:"name"`
		Rows   []string          `toml:"rows"`
		Legend map[string]Legend `toml:"legend"`
		Spawns []Spawn           `toml:"spawn"`
	}

	in := Level{
		Name: "test",
		Rows: []string{"..#", "###"},
		Legend: map[string]Legend{
			"#": {Kind: "solid"},
			"/": {Kind: "slope", Angle: 45},
		},
		Spawns: []Spawn{
			{Type: "player", X: 1, Components: map[string]any{"lifetime": map[string]any{"remaining": 2.5}}},
			{Type: "crate", X: 4.25},
		},
	}

	data, err := Marshal(in)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var out Level
	if err := UnmarshalStrict(data, &out); err != nil {
		t.Fatalf("Unmarshal failed on generated output: %v\nOutput:\n%s", err, data)
	}
	if out.Name != in.Name || len(out.Rows) != 2 || out.Rows[1] != "###" {
		t.Errorf("Expected scalars preserved, got %+v", out)
	}
	if out.Legend["/"].Angle != 45 || out.Legend["#"].Kind != "solid" {
		t.Errorf("Expected legend preserved, got %+v", out.Legend)
	}
	if len(out.Spawns) != 2 || out.Spawns[1].X != 4.25 {
		t.Fatalf("Expected spawns preserved, got %+v", out.Spawns)
	}
	life, ok := out.Spawns[0].Components["lifetime"].(map[string]any)
	if !ok || life["remaining"] != 2.5 {
		t.Errorf("Expected nested component table preserved, got %v", out.Spawns[0].Components)
	}
}

func TestMarshal_SkipNil(t *testing.T) {
	type Doc struct {
		Ptr *int `toml:"ptr"`
	}
	b, err := Marshal(Doc{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if len(b) != 0 {
		t.Errorf("Expected empty output for nil pointer, got: %s", b)
	}
}
