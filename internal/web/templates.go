package web

const pageTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{if .Dataset}}{{.Dataset.Name}} · {{end}}AlsoBought</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
.error { background: #fde8e8; border: 1px solid #f5b5b5; padding: .75rem 1rem; white-space: pre-wrap; }
.stats { color: #666; font-size: .9rem; }
table.recs { width: 100%; border-collapse: collapse; margin-top: 1rem; }
table.recs td, table.recs th { padding: .35rem .5rem; border-bottom: 1px solid #eee; text-align: left; }
td.num { text-align: right; font-variant-numeric: tabular-nums; }
td.bar { width: 40%; }
td.bar span { display: block; height: .8rem; background: #4a7bd0; }
</style>
</head>
<body>
<h1>AlsoBought</h1>
{{- if .Error}}
<p class="error" role="alert">{{.Error}}</p>
{{- end}}
<form method="post" action="/datasets" enctype="multipart/form-data">
<label>Order export (.csv or .xlsx) <input type="file" name="file" accept=".csv,.tsv,.txt,.xlsx" required></label>
<button type="submit">Upload</button>
</form>
{{- with .Dataset}}
<h2>{{.Name}}</h2>
<p class="stats">{{bytes .Size}} · {{comma $.Stats.Orders}} orders · {{comma $.Stats.RepeatBuyers}} repeat buyers of {{comma $.Stats.Buyers}} · {{comma $.Stats.TopItems}} items</p>
<form method="get" action="/datasets/{{.ID}}">
<label>Item <select name="item" onchange="this.form.submit()">
{{- range $.Items}}
<option value="{{.}}"{{if eq . $.Item}} selected{{end}}>{{.}}</option>
{{- end}}
</select></label>
<noscript><button type="submit">Show</button></noscript>
</form>
{{- if not $.Error}}
{{template "recommendations" $}}
{{- end}}
{{- end}}
</body>
</html>
`
