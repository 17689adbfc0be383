package render

import "html/template"

// TableTemplate is the recommendations table as a named template, for pages
// that embed it via {{template "recommendations" .}}.
const TableTemplate = `{{define "recommendations"}}<table class="recs">
<caption>Customers who bought <strong>{{.Item}}</strong> also bought</caption>
<thead><tr><th>#</th><th>Item</th><th>Correlation</th><th></th></tr></thead>
<tbody>
{{- range $i, $r := .Recommendations}}
<tr><td>{{inc $i}}</td><td>{{$r.Item}}</td><td class="num">{{percent $r.Correlation}}</td><td class="bar"><span style="width: {{bar $r.Correlation}}%"></span></td></tr>
{{- else}}
<tr><td colspan="4">No correlated items.</td></tr>
{{- end}}
</tbody>
</table>{{end}}`

var tableTmpl = template.Must(template.New("table").Funcs(FuncMap()).Parse(TableTemplate + `{{template "recommendations" .}}`))

var itemsTmpl = template.Must(template.New("items").Funcs(FuncMap()).Parse(`<table class="items">
<thead><tr><th>#</th><th>Item</th><th>Buyers</th><th>Quantity</th></tr></thead>
<tbody>
{{- range $i, $it := .}}
<tr><td>{{inc $i}}</td><td>{{$it.Item}}</td><td class="num">{{comma $it.Orders}}</td><td class="num">{{quantity $it.Quantity}}</td></tr>
{{- end}}
</tbody>
</table>
`))
