package web

import "html/template"

const indexTemplateName = "index.html"

var indexTemplate = template.Must(template.New(indexTemplateName).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; }
label { display: block; margin-top: .75rem; }
input, select { width: 100%; padding: .25rem; }
.result { margin-top: 1.5rem; padding: 1rem; border: 1px solid #ccc; }
.error { color: #a00; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Description}}</p>
<form method="post" action="/predict">
{{- range .Fields}}
<label for="{{.Name}}">{{.Label}}</label>
{{- if .Options}}
<select id="{{.Name}}" name="{{.Name}}">
{{- $value := .Value}}
{{- range .Options}}
<option value="{{.}}"{{if eq . $value}} selected{{end}}>{{.}}</option>
{{- end}}
</select>
{{- else}}
<input id="{{.Name}}" name="{{.Name}}" type="text" value="{{.Value}}">
{{- end}}
{{- end}}
<p><button type="submit">Predict</button></p>
</form>
{{- with .Result}}
<div class="result">
{{- if .Message}}
<p class="error">{{.Message}}</p>
{{- end}}
<p>Predicted Car Price: <span id="predicted-price">{{.PredictedPrice}}</span></p>
<p>Upper Bound of Confidence Interval: <span id="upper-bound">{{.UpperBound}}</span></p>
<p>Time Taken to Predict: <span id="time-taken">{{.TimeTaken}}</span></p>
{{- if .Graph}}
<p>Prediction Graph:</p>
<img src="{{.Graph}}" alt="Prediction Graph">
{{- end}}
</div>
{{- end}}
</body>
</html>
`))
