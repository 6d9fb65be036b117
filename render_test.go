package podium

import (
	"os"
	"strings"
	"testing"

	"github.com/tenntenn/golden"
)

func TestRenderSlideHTML(t *testing.T) {
	slide := &Slide{
		Number: 2,
		Blocks: []*VisualBlock{
			{
				Line: 1,
				Contents: []*Content{
					{Kind: ContentHeading, Depth: 1, Segments: []*Segment{{Kind: SegmentText, Value: "Title"}}},
					{Kind: ContentParagraph, Segments: []*Segment{{Kind: SegmentText, Value: "body <text>"}}},
				},
			},
			{
				Line: 5,
				Contents: []*Content{
					{Kind: ContentCode, Code: "x := 1\n", Lang: "go"},
				},
			},
		},
	}
	html := RenderSlideHTML(slide, GridFor(len(slide.Blocks)), Size{Width: 1280, Height: 720}, RenderOptions{Scale: 50})
	for _, want := range []string{
		`--heading-size:18.00px`,
		`--body-size:10.00px`,
		`width:1280px;height:720px`,
		`grid-template-columns:repeat(2,1fr)`,
		`<section class="block" data-line="1">`,
		`<h1>Title</h1>`,
		`<p>body &lt;text&gt;</p>`,
		`<section class="block" data-line="5">`,
		`<pre><code class="language-go">x := 1`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %q in rendered slide", want)
		}
	}
}

func TestRenderSlideHTMLGolden(t *testing.T) {
	slide := &Slide{
		Number: 2,
		Blocks: []*VisualBlock{
			{
				Line: 3,
				Contents: []*Content{
					{Kind: ContentHeading, Depth: 1, Segments: []*Segment{{Kind: SegmentText, Value: "One"}}},
					{Kind: ContentParagraph, Segments: []*Segment{
						{Kind: SegmentText, Value: "hello "},
						{Kind: SegmentStrong, Children: []*Segment{{Kind: SegmentText, Value: "world"}}},
					}},
				},
			},
			{
				Line: 7,
				Contents: []*Content{
					{Kind: ContentCode, Code: "x := 1\n", Lang: "go"},
				},
			},
		},
	}
	got := RenderSlideHTML(slide, GridFor(len(slide.Blocks)), Size{Width: 1280, Height: 720}, RenderOptions{Scale: 50})
	if os.Getenv("UPDATE_GOLDEN") != "" {
		golden.Update(t, "testdata", "slide_render", got)
		return
	}
	if diff := golden.Diff(t, "testdata", "slide_render", got); diff != "" {
		t.Error(diff)
	}
}

func TestRenderBlockContents(t *testing.T) {
	tests := []struct {
		name    string
		content *Content
		want    string
	}{
		{
			name: "ordered list",
			content: &Content{
				Kind:    ContentList,
				Ordered: true,
				Items: [][]*Segment{
					{{Kind: SegmentText, Value: "first"}},
					{{Kind: SegmentText, Value: "second"}},
				},
			},
			want: "<ol><li>first</li><li>second</li></ol>",
		},
		{
			name: "table with header row",
			content: &Content{
				Kind: ContentTable,
				Rows: [][]string{{"a", "b"}, {"1", "2"}},
			},
			want: "<table><tr><th>a</th><th>b</th></tr><tr><td>1</td><td>2</td></tr></table>",
		},
		{
			name: "blockquote",
			content: &Content{
				Kind:     ContentBlockquote,
				Segments: []*Segment{{Kind: SegmentText, Value: "line one\nline two"}},
			},
			want: "<blockquote>line one<br>line two</blockquote>",
		},
		{
			name: "image",
			content: &Content{
				Kind: ContentImage,
				Src:  "img.png",
				Alt:  "alt",
			},
			want: `<img src="img.png" alt="alt">`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := &VisualBlock{Line: 1, Contents: []*Content{tt.content}}
			got := RenderBlockHTML(block, RenderOptions{})
			if !strings.Contains(got, tt.want) {
				t.Errorf("want %q in %q", tt.want, got)
			}
		})
	}
}

func TestRenderRefSegments(t *testing.T) {
	resolver := func(target string) RefResolution {
		if target == "known" {
			return RefResolution{Title: "Known Note", Exists: true}
		}
		return RefResolution{Title: target}
	}
	block := &VisualBlock{
		Line: 1,
		Contents: []*Content{
			{
				Kind: ContentParagraph,
				Segments: []*Segment{
					{Kind: SegmentRef, Target: "known"},
					{Kind: SegmentRef, Target: "missing"},
				},
			},
		},
	}
	got := RenderBlockHTML(block, RenderOptions{Resolve: resolver})
	if !strings.Contains(got, `<a class="ref" data-target="known">Known Note</a>`) {
		t.Errorf("resolved ref not rendered: %q", got)
	}
	if !strings.Contains(got, `<a class="ref broken" data-target="missing">missing</a>`) {
		t.Errorf("broken ref not rendered: %q", got)
	}
}

func TestRenderImageSrcRewrite(t *testing.T) {
	block := &VisualBlock{
		Line:     1,
		Contents: []*Content{{Kind: ContentImage, Src: "img.png", Alt: "a"}},
	}
	got := RenderBlockHTML(block, RenderOptions{
		ImageSrc: func(src string) string { return "data:image/png;base64,AAAA" },
	})
	if !strings.Contains(got, `src="data:image/png;base64,AAAA"`) {
		t.Errorf("image src not rewritten: %q", got)
	}
}

func TestRenderLineHTML(t *testing.T) {
	item := &Item{Kind: ItemLine, Slide: 1, Line: 3, Text: "plain <line>"}
	got := RenderLineHTML(item)
	want := `<p class="line" data-line="3">plain &lt;line&gt;</p>` + "\n"
	if got != want {
		t.Errorf("want %q, got %q", want, got)
	}
}
