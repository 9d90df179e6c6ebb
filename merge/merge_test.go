package merge

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aaronopela/dtools/convert"
	"github.com/aaronopela/dtools/xliff"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		in   string
		want Token
	}{
		{"test.translation", Token{Key: "test.translation", Text: "__test.translation"}},
		{"test.translation:Hello", Token{Key: "test.translation", Text: "Hello", Translated: true}},
		{"a:b:c", Token{Key: "a", Text: "b:c", Translated: true}},
		{"a:", Token{Key: "a", Text: "__a"}},
		{"a:__draft", Token{Key: "a", Text: "__draft"}},
		{"menu_item-2:Line one\nLine two", Token{Key: "menu_item-2", Text: "Line one\nLine two", Translated: true}},
	}
	for _, tc := range tests {
		got, err := ParseToken(tc.in, DefaultPrefix)
		if err != nil {
			t.Fatalf("ParseToken(%q) error: %v", tc.in, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseToken(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParseToken_Invalid(t *testing.T) {
	for _, in := range []string{"", "bad key", "key/with/slash:x", ":text", "é:x"} {
		_, err := ParseToken(in, DefaultPrefix)
		var tfe *TokenFormatError
		if !errors.As(err, &tfe) {
			t.Errorf("ParseToken(%q) error = %v, want *TokenFormatError", in, err)
			continue
		}
		if tfe.Token != in {
			t.Errorf("TokenFormatError.Token = %q, want %q", tfe.Token, in)
		}
	}
}

func TestParseToken_NoPrefix(t *testing.T) {
	got, err := ParseToken("key", "")
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if got.Text != "key" || got.Translated {
		t.Errorf("got %+v, want untranslated text equal to key", got)
	}
}

// ---------------------------------------------------------------------------
// Batch
// ---------------------------------------------------------------------------

func newTestBatch(warnings *[]string) *Batch {
	b := NewBatch(DefaultPrefix)
	b.OnWarn = func(format string, args ...any) {
		*warnings = append(*warnings, fmt.Sprintf(format, args...))
	}
	return b
}

func TestBatch_DuplicatePolicy(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		want     string
		warnings int
	}{
		{"neither translated", []string{"a", "a"}, "__a", 0},
		{"first translated", []string{"a:Hello", "a"}, "Hello", 0},
		{"both translated", []string{"a:Hello", "a:Goodbye"}, "Goodbye", 1},
		{"both translated same text", []string{"a:Hello", "a:Hello"}, "Hello", 0},
		{"second translated", []string{"a", "a:Hi"}, "Hi", 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var warnings []string
			b := newTestBatch(&warnings)
			if errs := b.AddAll(tc.tokens); len(errs) != 0 {
				t.Fatalf("AddAll errors: %v", errs)
			}
			tok, ok := b.Get("a")
			if !ok {
				t.Fatal("key a missing from batch")
			}
			if tok.Text != tc.want {
				t.Errorf("a = %q, want %q", tok.Text, tc.want)
			}
			if len(warnings) != tc.warnings {
				t.Errorf("warnings = %v, want %d", warnings, tc.warnings)
			}
			if b.Len() != 1 {
				t.Errorf("Len() = %d, want 1", b.Len())
			}
		})
	}
}

func TestBatch_KeepsFirstSeenOrderAndSkipsBadTokens(t *testing.T) {
	var warnings []string
	b := newTestBatch(&warnings)
	errs := b.AddAll([]string{"z.last", "bad token", "a.first:A", "z.last:Z", "m"})

	if len(errs) != 1 || len(b.Errors) != 1 {
		t.Fatalf("errors = %v / %v, want one token error", errs, b.Errors)
	}
	var keys []string
	for _, tok := range b.Tokens() {
		keys = append(keys, tok.Key)
	}
	if diff := cmp.Diff([]string{"z.last", "a.first", "m"}, keys); diff != "" {
		t.Errorf("key order mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// Insert
// ---------------------------------------------------------------------------

func TestInsert(t *testing.T) {
	doc := xliff.New("messages", "en")
	doc.Set("existing.done", "Done")
	doc.Set("existing.todo", "__existing.todo")

	var warnings []string
	b := newTestBatch(&warnings)
	b.AddAll([]string{"existing.done", "existing.todo:Todo", "test.translation", "test.hello:Hello"})

	res := Insert(doc, b)

	want := InsertResult{
		Added:   []string{"test.translation", "test.hello"},
		Updated: []string{"existing.todo"},
		Kept:    []string{"existing.done"},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("InsertResult mismatch (-want +got):\n%s", diff)
	}

	targets := map[string]string{}
	for _, u := range doc.Units {
		targets[u.ResName] = u.Target
		if u.ID != u.ResName || u.Source == "" {
			t.Errorf("unit %q: id=%q source=%q", u.ResName, u.ID, u.Source)
		}
	}
	wantTargets := map[string]string{
		"existing.done":    "Done",
		"existing.todo":    "Todo",
		"test.translation": "__test.translation",
		"test.hello":       "Hello",
	}
	if diff := cmp.Diff(wantTargets, targets); diff != "" {
		t.Errorf("targets mismatch (-want +got):\n%s", diff)
	}
	// Insert appends and does not sort.
	if diff := cmp.Diff([]string{"existing.done", "existing.todo", "test.translation", "test.hello"}, doc.Keys()); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// Clean
// ---------------------------------------------------------------------------

func TestClean_NaturalSort(t *testing.T) {
	doc := xliff.New("messages", "en")
	for _, k := range []string{"item10", "item2", "item1"} {
		doc.Set(k, k)
	}
	Clean(doc, CleanOptions{Prefix: DefaultPrefix})

	if diff := cmp.Diff([]string{"item1", "item2", "item10"}, doc.Keys()); diff != "" {
		t.Errorf("sorted keys mismatch (-want +got):\n%s", diff)
	}
}

func TestClean_PrunesNonPrimaryLocales(t *testing.T) {
	build := func(locale string) *xliff.Document {
		doc := xliff.New("messages", locale)
		doc.Set("greeting", "Hello")
		doc.Set("farewell", "")
		doc.Set("pending", "__pending")
		return doc
	}
	opts := CleanOptions{PrimaryLocale: "en", Prefix: DefaultPrefix}

	en := build("en")
	res := Clean(en, opts)
	if len(res.Dropped) != 0 || res.Kept != 3 {
		t.Errorf("en: result = %+v, want all kept", res)
	}

	fr := build("fr")
	res = Clean(fr, opts)
	if diff := cmp.Diff([]string{"farewell", "pending"}, res.Dropped); diff != "" {
		t.Errorf("fr: dropped mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"greeting"}, fr.Keys()); diff != "" {
		t.Errorf("fr: keys mismatch (-want +got):\n%s", diff)
	}

	gb := build("en_GB")
	res = Clean(gb, opts)
	if len(res.Dropped) != 2 {
		t.Errorf("en_GB: dropped = %v, a culture file is never primary", res.Dropped)
	}
}

func TestClean_NoPrimaryKeepsEverything(t *testing.T) {
	doc := xliff.New("messages", "fr")
	doc.Set("a", "")
	doc.Set("b", "__b")
	res := Clean(doc, CleanOptions{Prefix: DefaultPrefix})
	if len(res.Dropped) != 0 || res.Kept != 2 {
		t.Errorf("result = %+v, want nothing dropped", res)
	}
}

func TestClean_FileAttributes(t *testing.T) {
	doc := xliff.New("validators", "fr_CA")
	doc.SourceLanguage = "fr"
	doc.Original = "file.ext"
	doc.TargetLanguage = "fr"

	Clean(doc, CleanOptions{PrimaryLocale: "en"})

	if doc.SourceLanguage != "en" {
		t.Errorf("source-language = %q, want en", doc.SourceLanguage)
	}
	if doc.Original != "validators.en.xlf" {
		t.Errorf("original = %q, want validators.en.xlf", doc.Original)
	}
	if doc.TargetLanguage != "fr-CA" {
		t.Errorf("target-language = %q, want fr-CA", doc.TargetLanguage)
	}
}

func TestClean_AppliesConversions(t *testing.T) {
	doc := xliff.New("messages", "en")
	doc.Set("legal", "Terms &amp; conditions")
	doc.Set("space", "100&nbsp;%")

	Clean(doc, CleanOptions{Conversions: convert.Options{AmpAsChar: true, NbspAsChar: true}})

	if got := doc.Unit("legal").Target; got != "Terms & conditions" {
		t.Errorf("legal = %q", got)
	}
	if got := doc.Unit("space").Target; got != "100"+convert.NBSP+"%" {
		t.Errorf("space = %q", got)
	}
}

func TestClean_LeavesInlineMarkupAlone(t *testing.T) {
	data := `<xliff version="1.2"><file><body>
<trans-unit id="link" resname="link"><source>link</source><target>Voir <g id="a">la doc</g> &amp; plus</target></trans-unit>
</body></file></xliff>`
	doc, err := xliff.Parse([]byte(data), "messages.fr.xlf")
	if err != nil {
		t.Fatal(err)
	}

	Clean(doc, CleanOptions{Conversions: convert.Options{AmpAsChar: true, LtGtAsEntity: true}})

	if got := doc.Unit("link").Target; got != `Voir <g id="a">la doc</g> &amp; plus` {
		t.Errorf("link = %q", got)
	}
}

func TestInsert_ReplacesMarkupTarget(t *testing.T) {
	data := `<xliff version="1.2"><file><body>
<trans-unit id="k" resname="k"><source>k</source><target>__<x id="1"/></target></trans-unit>
</body></file></xliff>`
	doc, err := xliff.Parse([]byte(data), "messages.fr.xlf")
	if err != nil {
		t.Fatal(err)
	}
	b := NewBatch(DefaultPrefix)
	b.Add("k:a < b")

	Insert(doc, b)

	u := doc.Unit("k")
	if u.TargetMarkup || u.Target != "a < b" {
		t.Errorf("unit = %+v, want plain target", u)
	}
}

// ---------------------------------------------------------------------------
// Natural order
// ---------------------------------------------------------------------------

func TestNaturalLess(t *testing.T) {
	keys := []string{"item10", "b", "item2", "item1", "item02", "a10b", "a9b", "item", "Z"}
	sort.Slice(keys, func(i, j int) bool { return NaturalLess(keys[i], keys[j]) })

	want := []string{"Z", "a9b", "a10b", "b", "item", "item1", "item2", "item02", "item10"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("natural order mismatch (-want +got):\n%s", diff)
	}
}

func TestNaturalLess_Irreflexive(t *testing.T) {
	for _, s := range []string{"", "a", "item10", "007"} {
		if NaturalLess(s, s) {
			t.Errorf("NaturalLess(%q, %q) = true", s, s)
		}
	}
}
