package richtext

import "testing"

const reviewDoc = `{"type":"doc","content":[{"type":"paragraph","content":[` +
	`{"type":"text","text":"Review unresolved flags and assign next steps."}]}]}`

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"empty string", "", ""},
		{"plain string", "  Send   onboarding\n reminder email. ", "Send onboarding reminder email."},
		{"rich document", reviewDoc, "Review unresolved flags and assign next steps."},
		{"malformed json falls back to raw", `{"type":"doc"`, `{"type":"doc"`},
		{"braces that are not json", "{not json}", "{not json}"},
		{"json array of strings", `["first", "second"]`, "first second"},
		{"bytes", []byte(reviewDoc), "Review unresolved flags and assign next steps."},
		{"number", 42, ""},
		{"bool", true, ""},
		{"decoded slice", []any{"a", map[string]any{"text": "b"}, 7}, "a b"},
		{"node with own text and content", map[string]any{
			"text":    "Heading",
			"content": []any{map[string]any{"text": "body"}},
		}, "Heading body"},
		{"non-string text is ignored", map[string]any{"text": 12}, ""},
		{"nested serialized document", `["` + `{\"text\":\"inner\"}` + `"]`, "inner"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractText(tc.in); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExtract_MultipleParagraphs(t *testing.T) {
	doc := `{"type":"doc","content":[` +
		`{"type":"paragraph","content":[{"type":"text","text":"One."}]},` +
		`{"type":"paragraph"},` +
		`{"type":"paragraph","content":[{"type":"text","text":"Two."}]}]}`
	if got := ExtractText(doc); got != "One. Two." {
		t.Errorf("got %q", got)
	}
}

func TestDecode_Variants(t *testing.T) {
	n := Decode(reviewDoc)
	b, ok := n.(Block)
	if !ok {
		t.Fatalf("expected Block, got %T", n)
	}
	if b.Type != "doc" {
		t.Errorf("type: got %q", b.Type)
	}
	if _, ok := b.Content.(Fragment); !ok {
		t.Errorf("content: expected Fragment, got %T", b.Content)
	}

	if n := Decode("plain"); n != (Text{Value: "plain"}) {
		t.Errorf("plain: got %#v", n)
	}
	if n := Decode(3.5); n != nil {
		t.Errorf("number: expected nil, got %#v", n)
	}
}

func TestNormalizeSpace(t *testing.T) {
	if got := NormalizeSpace("\t a \n\n b  c "); got != "a b c" {
		t.Errorf("got %q", got)
	}
}
