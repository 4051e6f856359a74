package web

import (
	"fmt"
	"strings"

	"github.com/perp-tools/bybit-screener/internal/model"
)

func menuHTML() string {
	var links strings.Builder
	for _, m := range model.Metrics {
		fmt.Fprintf(&links, "<li><a href='/%s.html'>%s</a></li>", m, m)
	}
	return fmt.Sprintf("<html><body><h1>Metrics</h1><ul>%s</ul></body></html>", links.String())
}

const _metricPageTemplate = `<html><head><meta charset="UTF-8"><title>%[1]s</title></head>
<body>
<p><a href="/index.html">Menu</a> | %[2]s</p>
<div id="tbl">Loading table...</div>
<script>
  async function refresh() {
    let r = await fetch('/%[1]s.json');
    if (!r.ok) { return; }
    let d = await r.json();
    let html = '<table border="1"><tr>'
      + d.columns.map(c => '<th>'+c+'</th>').join('') + '</tr>'
      + d.rows.map(r => '<tr>'+ r.map(v => '<td>'+ (v || '') + '</td>').join('') + '</tr>').join('')
      + '</table>';
    document.getElementById('tbl').innerHTML = html;
  }
  setInterval(refresh, 5000);
  refresh();
</script>
</body></html>`

func metricHTML(metric model.Metric) string {
	nav := make([]string, 0, len(model.Metrics))
	for _, m := range model.Metrics {
		nav = append(nav, fmt.Sprintf("<a href='/%s.html'>%s</a>", m, m))
	}
	return fmt.Sprintf(_metricPageTemplate, metric, strings.Join(nav, " | "))
}
