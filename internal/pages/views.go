package pages

import (
	"fmt"
	"html/template"
	"io"

	"github.com/utafrali/productspec/internal/domain"
)

// View is a read-only HTML page over the current session.
type View struct {
	Name  string
	Title string
	tmpl  *template.Template
}

// Data is what a view renders.
type Data struct {
	Title    string
	Path     string
	Product  *domain.Product
	Specs    []domain.Spec
	Variants []domain.Variant
}

// Render writes the view for snapshot to w.
func (v *View) Render(w io.Writer, path string, snapshot domain.Snapshot) error {
	data := Data{
		Title:    v.Title,
		Path:     path,
		Product:  snapshot.Product,
		Specs:    snapshot.Specs,
		Variants: snapshot.Variants,
	}
	if err := v.tmpl.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("render %s view: %w", v.Name, err)
	}
	return nil
}

const layout = `{{define "layout"}}<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<nav><a href="/">Home</a> | <a href="/specs">Specs</a> | <a href="/product">Product</a></nav>
<main>
<h1>{{.Title}}</h1>
{{template "content" .}}
</main>
</body>
</html>{{end}}`

const homeContent = `{{define "content"}}
{{if .Product}}<p>Editing <strong>{{.Product.Name}}</strong>.</p>{{else}}<p>No product configured yet.</p>{{end}}
<p>{{len .Specs}} specs, {{len .Variants}} variants.</p>
{{end}}`

const specsContent = `{{define "content"}}
{{range .Specs}}<section>
<h2>{{.Title}}</h2>
<ul>{{range .Options}}
<li>{{.Name}}{{if .Price}} ({{printf "%.2f" (deref .Price)}}){{end}}{{if .Stock}} stock {{derefInt .Stock}}{{end}}{{if .Image}} <img src="{{.Image}}" alt="{{.Name}}">{{end}}</li>{{end}}
</ul>
</section>{{else}}<p>No specs defined.</p>{{end}}
{{end}}`

const productContent = `{{define "content"}}
{{with .Product}}<p>{{.Name}}</p>{{if .Description}}<p>{{.Description}}</p>{{end}}{{end}}
{{if .Variants}}<table>
<tr><th>Variant</th><th>Price</th><th>Stock</th><th>Quantity</th></tr>
{{range .Variants}}<tr id="{{.ID}}"><td>{{range $k, $v := .Specs}}{{$k}}: {{$v}} {{end}}</td><td>{{printf "%.2f" .Price}}</td><td>{{.Stock}}</td><td>{{.Quantity}}</td></tr>
{{end}}</table>{{else}}<p>No variants.</p>{{end}}
{{end}}`

const notFoundContent = `{{define "content"}}
<p>Nothing is mounted at {{.Path}}.</p>
{{end}}`

var funcs = template.FuncMap{
	"deref":    func(f *float64) float64 { return *f },
	"derefInt": func(i *int) int { return *i },
}

func newView(name, title, content string) *View {
	t := template.Must(template.New(name).Funcs(funcs).Parse(layout))
	template.Must(t.Parse(content))
	return &View{Name: name, Title: title, tmpl: t}
}

// The application's views.
var (
	HomeView           = newView("home", "Home", homeContent)
	SpecManagementView = newView("specs", "Spec Management", specsContent)
	ProductPageView    = newView("product", "Product Page", productContent)
	NotFoundView       = newView("not-found", "Not Found", notFoundContent)
)
