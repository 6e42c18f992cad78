package widget

import "testing"

func TestSplitDescriptionWithHeading(t *testing.T) {
	title, body := SplitDescription("<h2>Trail Runner</h2><p>Grippy sole.</p><p>Waterproof.</p>")
	if title != "Trail Runner" {
		t.Fatalf("title = %q", title)
	}
	if body != "Grippy sole. Waterproof." {
		t.Fatalf("body = %q", body)
	}
}

func TestSplitDescriptionWithoutHeading(t *testing.T) {
	title, body := SplitDescription("<p>Just a plain blurb.</p>")
	if title != "" {
		t.Fatalf("title = %q, want empty", title)
	}
	if body != "Just a plain blurb." {
		t.Fatalf("body = %q", body)
	}
}

func TestSplitDescriptionPicksFirstHeadingOnly(t *testing.T) {
	title, body := SplitDescription("<h1>Main</h1><h3>Sub</h3>details")
	if title != "Main" {
		t.Fatalf("title = %q", title)
	}
	if body != "Sub details" {
		t.Fatalf("body = %q", body)
	}
}

func TestSplitDescriptionCollapsesWhitespace(t *testing.T) {
	_, body := SplitDescription("<p>a\n\n  b\t c</p>")
	if body != "a b c" {
		t.Fatalf("body = %q", body)
	}
}
