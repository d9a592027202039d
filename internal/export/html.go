package export

import (
	"fmt"
	"strings"

	"github.com/auro-editor/auro/internal/document"
)

const htmlHead = `<!DOCTYPE html>
<html>
<head>
  <title>Auro Editor Export</title>
  <style>
    @import url('https://fonts.googleapis.com/css2?family=Inter:wght@400;500;700&family=Montserrat:wght@400;500;700&display=swap');

    @media print {
      @page { size: A4; margin: 0; }
      .page-break { page-break-after: always; }
    }

    body {
      margin: 0;
      padding: 20px;
      background: #f0f0f0;
      font-family: 'Inter', sans-serif;
    }

    .page {
      width: %spx;
      height: %spx;
      margin: 0 auto 20px;
      background: white;
      position: relative;
      box-shadow: 0 4px 8px rgba(0,0,0,0.1);
    }

    .page-number {
      text-align: center;
      margin-bottom: 5px;
      color: #777;
      font-size: 14px;
    }

    svg {
      display: block;
    }
  </style>
</head>
<body>`

// HTML renders every page as an SVG inside a printable web page.
func (x *Exporter) HTML(pages []document.Page) string {
	var b strings.Builder
	fmt.Fprintf(&b, htmlHead, num(x.width), num(x.height))
	for i, page := range pages {
		if i > 0 {
			b.WriteString(`<div class="page-break"></div>`)
		}
		fmt.Fprintf(&b, "\n<div class=\"page-number\">Page %d of %d</div>\n<div class=\"page\">\n", i+1, len(pages))
		b.WriteString(x.SVG(page))
		b.WriteString("\n</div>")
	}
	b.WriteString("</body></html>")
	return b.String()
}
