package http

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// PageCopy is the static copy shown around the card.
type PageCopy struct {
	Brand     string
	Headline  string
	Tagline   string
	Fineprint string
	Width     int
	Height    int
}

// DefaultPageCopy returns the stock copy for a brand.
func DefaultPageCopy(brand string, width, height int) PageCopy {
	return PageCopy{
		Brand:     brand,
		Headline:  "Scratch & Win",
		Tagline:   "Scratch the card to reveal your exclusive offer!",
		Fineprint: "(Upto 20% OFF*)",
		Width:     width,
		Height:    height,
	}
}

// Page renders the host page. The card itself is drawn server-side; the
// script forwards mouse and touch samples and swaps in the updated image.
func Page(p PageCopy) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		parts := []string{
			`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`, templ.EscapeString(p.Brand), ` · `, templ.EscapeString(p.Headline), `</title>`,
			`<style>`, pageCSS, `</style></head><body>`,
			`<main><header>`,
			`<h1>`, templ.EscapeString(p.Brand), `</h1>`,
			`<h2>`, templ.EscapeString(p.Headline), `</h2>`,
			`<p>`, templ.EscapeString(p.Tagline), `</p>`,
			`<p class="fine">`, templ.EscapeString(p.Fineprint), `</p>`,
			`</header>`,
			`<div id="card" class="card" data-width="`, strconv.Itoa(p.Width), `" data-height="`, strconv.Itoa(p.Height), `">`,
			`<img id="surface" alt="Scratch card" draggable="false">`,
			`</div>`,
			`<p id="message" class="message" hidden></p>`,
			`<button id="reset" type="button" hidden>Reset</button>`,
			`</main><script>`, pageJS, `</script></body></html>`,
		}
		for _, s := range parts {
			if _, err := io.WriteString(w, s); err != nil {
				return err
			}
		}
		return nil
	})
}

const pageCSS = `
body{margin:0;min-height:100vh;display:flex;align-items:center;justify-content:center;
font-family:system-ui,sans-serif;background:linear-gradient(135deg,#ede9fe,#c4b5fd);color:#1e1b4b}
main{text-align:center;padding:1rem;max-width:42rem}
h1{font-size:2.5rem;margin:.25rem 0}h2{font-size:2rem;margin:.25rem 0}
p{color:#4c1d95}.fine{font-size:.9rem}
.card{position:relative;width:100%;max-width:28rem;aspect-ratio:3/2;margin:1.5rem auto;border-radius:1rem;
overflow:hidden;box-shadow:0 10px 30px rgba(76,29,149,.3)}
.card img{width:100%;height:100%;display:block;cursor:pointer;touch-action:none;user-select:none}
.message{font-weight:600;font-size:1.2rem}
button{margin-top:1rem;padding:.8rem 2rem;font-size:1rem;font-weight:600;border:0;border-radius:.5rem;
background:#7c3aed;color:#fff;cursor:pointer}
`

const pageJS = `
(function(){
  const card = document.getElementById('card');
  const img = document.getElementById('surface');
  const message = document.getElementById('message');
  const reset = document.getElementById('reset');
  const width = Number(card.dataset.width), height = Number(card.dataset.height);
  let id = null, queue = [], busy = false, revealed = false;

  function refresh(){ img.src = '/v1/cards/' + id + '/image.png?t=' + Date.now(); }

  function apply(v){
    if (v.revealed && !revealed){
      revealed = true;
      message.textContent = v.message + (v.offer ? ' ' + v.offer.description : '');
      message.hidden = false;
      reset.hidden = false;
    }
  }

  async function mount(){
    if (id) { fetch('/v1/cards/' + id, {method: 'DELETE'}); }
    queue = []; revealed = false; message.hidden = true; reset.hidden = true;
    const res = await fetch('/v1/cards', {method: 'POST'});
    const v = await res.json();
    id = v.id;
    refresh();
  }

  async function flush(){
    if (busy || !queue.length || !id) return;
    busy = true;
    const events = queue; queue = [];
    try {
      const res = await fetch('/v1/cards/' + id + '/events', {
        method: 'POST', headers: {'Content-Type': 'application/json'},
        body: JSON.stringify({events: events})
      });
      if (res.ok) { apply(await res.json()); refresh(); }
    } finally {
      busy = false;
      if (queue.length) flush();
    }
  }

  function push(type, clientX, clientY){
    if (revealed) return;
    const r = img.getBoundingClientRect();
    queue.push({type: type, x: (clientX - r.left) * width / r.width, y: (clientY - r.top) * height / r.height});
    flush();
  }

  img.addEventListener('mousedown', e => push('mousedown', e.clientX, e.clientY));
  img.addEventListener('mousemove', e => { if (e.buttons & 1) push('mousemove', e.clientX, e.clientY); });
  img.addEventListener('mouseup', e => push('mouseup', e.clientX, e.clientY));
  img.addEventListener('mouseleave', e => push('mouseleave', e.clientX, e.clientY));
  img.addEventListener('touchstart', e => { const t = e.touches[0]; if (t) push('touchstart', t.clientX, t.clientY); });
  img.addEventListener('touchmove', e => { e.preventDefault(); const t = e.touches[0]; if (t) push('touchmove', t.clientX, t.clientY); }, {passive: false});
  img.addEventListener('touchend', () => push('touchend', 0, 0));
  reset.addEventListener('click', mount);
  mount();
})();
`
