package tools

import (
	"context"
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"
	"testing"
)

func TestInline(t *testing.T) {
	input := `
I like %inline("tacos"), and
I also like %inline("queso").
Both are delicious.
`
	want := `
I like TACOS, and
I also like QUESO.
Both are delicious.
`

	find := func(name string) ([]byte, error) {
		return []byte(strings.ToUpper(name)), nil
	}

	got, err := Inline([]byte(input), find)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != want {
		log.Fatalf("got %s", got)
	}
}

func TestInlineTimelines(t *testing.T) {
	page := []byte(`<script>const anima_components = %inline("missouri.yaml");</script>`)

	got, err := InlineTimelines(context.Background(), page, "../loader/testdata")
	if err != nil {
		t.Fatal(err)
	}

	s := string(got)
	if !strings.HasPrefix(s, "<script>const anima_components = [") || !strings.HasSuffix(s, "];</script>") {
		t.Fatal(s)
	}
	if !strings.Contains(s, `"root_element": ".missouri-schwa"`) {
		t.Fatal(s)
	}

	if _, err = InlineTimelines(context.Background(), []byte(`%inline("nope.yaml")`), "../loader/testdata"); err == nil {
		t.Fatal("should have complained")
	}
}

func TestReadPageWithTimelines(t *testing.T) {
	dir := t.TempDir()
	tl, err := ioutil.ReadFile("../loader/testdata/missouri.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if err = ioutil.WriteFile(filepath.Join(dir, "missouri.yaml"), tl, 0644); err != nil {
		t.Fatal(err)
	}
	page := filepath.Join(dir, "page.html")
	src := `<script>const anima_components = %inline("missouri.yaml");</script>`
	if err = ioutil.WriteFile(page, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadPageWithTimelines(context.Background(), page)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), `"root_element": ".missouri-schwa"`) {
		t.Fatal(string(got))
	}

	if _, err = ReadPageWithTimelines(context.Background(), filepath.Join(dir, "nope.html")); err == nil {
		t.Fatal("should have complained")
	}
}
