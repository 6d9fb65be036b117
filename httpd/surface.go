package httpd

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/k1LoW/podium"
	"github.com/k1LoW/podium/md"
)

type surface string

const (
	surfaceSlideshow    surface = "slideshow"
	surfaceFullscreen   surface = "fullscreen"
	surfaceTeleprompter surface = "teleprompter"
)

// One page per surface; all three share the same nav/event wiring and
// differ only in what they render. Styling is up to the embedding
// application, pages here are deliberately bare.
var surfaceTmpl = template.Must(template.New("surface").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>podium - {{.Surface}}</title></head>
<body data-surface="{{.Surface}}">
<main id="stage">{{.Stage}}</main>
<footer><progress id="progress" max="1" value="{{.Progress}}"></progress></footer>
<script>
const reloadStage = async () => {
  const res = await fetch('{{.StagePath}}');
  document.getElementById('stage').innerHTML = await res.text();
};
const nav = async (op) => {
  const res = await fetch('/api/nav', {method: 'POST', body: JSON.stringify({op})});
  const state = await res.json();
  document.getElementById('progress').value = state.progress;
  await reloadStage();
};
document.addEventListener('keydown', (e) => {
  switch (e.key) {
    case 'ArrowRight': nav('nextSlide'); break;
    case 'ArrowLeft': nav('prevSlide'); break;
    case 'ArrowDown': nav('nextItem'); break;
    case 'ArrowUp': nav('prevItem'); break;
  }
});
document.addEventListener('mouseup', () => {
  const sel = document.getSelection();
  if (!sel || sel.isCollapsed) return;
  let node = sel.anchorNode;
  while (node && !(node.dataset && node.dataset.line)) node = node.parentElement;
  if (!node) return;
  fetch('/api/selection', {method: 'POST', body: JSON.stringify({line: Number(node.dataset.line), text: sel.toString()})});
});
const events = new EventSource('/api/events');
events.onmessage = (m) => {
  const ev = JSON.parse(m.data);
  if (ev.type === 'reload') { location.reload(); return; }
  if (ev.type === 'nav' && ev.nav) {
    document.getElementById('progress').value = ev.nav.progress;
    reloadStage();
  }
};
</script>
</body>
</html>
`))

type surfaceData struct {
	Surface   surface
	Stage     template.HTML
	StagePath string
	Progress  float64
}

func (s *Server) handleSurface(sf surface) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.RLock()
		doc := s.doc
		nav := s.nav
		s.mu.RUnlock()
		data := surfaceData{
			Surface:   sf,
			StagePath: "/api/slide",
			Progress:  nav.Progress(),
		}
		switch sf {
		case surfaceTeleprompter:
			data.StagePath = "/api/deck"
			data.Stage = s.teleprompterStage(doc)
		default:
			data.Stage = s.slideStage(doc, nav)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := surfaceTmpl.Execute(w, data); err != nil {
			s.logger.Error("failed to render surface", slog.String("error", err.Error()))
		}
	}
}

// slideStage renders the active slide's blocks.
func (s *Server) slideStage(doc *md.Doc, nav *podium.Navigator) template.HTML {
	number := nav.CurrentSlideNumber()
	opts := podium.RenderOptions{Preset: s.preset, Resolve: s.resolve}
	var sb strings.Builder
	for _, slide := range doc.Items.ToSlides() {
		if slide.Number != number {
			continue
		}
		for _, block := range slide.Blocks {
			sb.WriteString(podium.RenderBlockHTML(block, opts))
		}
	}
	return template.HTML(sb.String())
}

// teleprompterStage renders every item, lines included, grouped by
// slide, each carrying its source line for selection mapping.
func (s *Server) teleprompterStage(doc *md.Doc) template.HTML {
	opts := podium.RenderOptions{Preset: s.preset, Resolve: s.resolve}
	var sb strings.Builder
	for _, group := range doc.Items.ToSlideGroups() {
		sb.WriteString(`<section class="group">`)
		for _, item := range group.Items {
			if item.Kind == podium.ItemBlock {
				sb.WriteString(podium.RenderBlockHTML(item.Block, opts))
			} else {
				sb.WriteString(podium.RenderLineHTML(item))
			}
		}
		sb.WriteString("</section>\n")
	}
	return template.HTML(sb.String())
}
