package tools

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderTimelineHTML(t *testing.T) {

	t.Run("withoutGraph", func(t *testing.T) {
		out := bytes.NewBuffer(make([]byte, 0, 1024*128))

		err := ReadAndRenderTimelinePage("../loader/testdata/missouri.yaml", []string{"timeline.css"}, out, false)

		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), "<em>schwa</em>") {
			t.Fatal("doc not rendered")
		}
		if strings.Contains(out.String(), `class="mermaid"`) {
			t.Fatal("unexpected graph")
		}
	})

	t.Run("withGraph", func(t *testing.T) {
		out := bytes.NewBuffer(make([]byte, 0, 1024*128))

		err := ReadAndRenderTimelinePage("../loader/testdata/missouri.yaml", []string{"timeline.css"}, out, true)

		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(out.String(), `class="mermaid"`) {
			t.Fatal("no graph")
		}
	})

}
