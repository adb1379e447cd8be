package response

import (
	"html/template"
	"log/slog"
	"net/http"
)

// Branded terminal pages for routing rejections. Kept deliberately plain:
// one template, no assets, safe to serve from the edge.
const pageHTML = `<!DOCTYPE html>
<html lang="tr">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} — Güzelleştir</title>
<style>
body { font-family: system-ui, sans-serif; background: #faf7f2; color: #2d2a26;
       display: flex; min-height: 100vh; align-items: center; justify-content: center; margin: 0; }
main { max-width: 28rem; padding: 2rem; text-align: center; }
h1 { font-size: 1.5rem; }
p { color: #6b655c; line-height: 1.5; }
a { color: #c2410c; }
code { background: #f0ebe3; padding: 0.1rem 0.4rem; border-radius: 4px; }
</style>
</head>
<body>
<main>
<h1>{{.Heading}}</h1>
<p>{{.Message}}{{if .Slug}} <code>{{.Slug}}</code>{{end}}</p>
<p><a href="{{.HomeURL}}">Güzelleştir ana sayfasına dön</a></p>
</main>
</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageHTML))

type pageData struct {
	Title   string
	Heading string
	Message string
	Slug    string
	HomeURL string
}

// Pages renders branded error pages linking back to the apex domain.
type Pages struct {
	homeURL string
}

// NewPages creates a Pages renderer for the given apex domain.
func NewPages(apex string) *Pages {
	return &Pages{homeURL: "https://" + apex}
}

// TenantNotFound renders the 404 page for unknown (or reserved) subdomains.
// The attempted slug is echoed; the requester supplied it themselves.
func (p *Pages) TenantNotFound(w http.ResponseWriter, slug string) {
	p.render(w, http.StatusNotFound, pageData{
		Title:   "Restoran bulunamadı",
		Heading: "Restoran bulunamadı",
		Message: "Bu adreste kayıtlı bir restoran yok:",
		Slug:    slug,
	})
}

// TenantInactive renders the 403 page for deactivated tenants.
func (p *Pages) TenantInactive(w http.ResponseWriter, slug string) {
	p.render(w, http.StatusForbidden, pageData{
		Title:   "Restoran aktif değil",
		Heading: "Bu restoran şu anda aktif değil",
		Message: "Restoran hesabı geçici olarak kapalı:",
		Slug:    slug,
	})
}

// BadHostname renders the 400 page for malformed subdomain labels.
func (p *Pages) BadHostname(w http.ResponseWriter, label string) {
	p.render(w, http.StatusBadRequest, pageData{
		Title:   "Geçersiz adres",
		Heading: "Geçersiz adres",
		Message: "Bu alt alan adı geçerli değil:",
		Slug:    label,
	})
}

// ServiceUnavailable renders the 503 page for tenant lookup failures.
func (p *Pages) ServiceUnavailable(w http.ResponseWriter) {
	p.render(w, http.StatusServiceUnavailable, pageData{
		Title:   "Geçici bir sorun oluştu",
		Heading: "Geçici bir sorun oluştu",
		Message: "Lütfen birkaç saniye sonra tekrar deneyin.",
	})
}

func (p *Pages) render(w http.ResponseWriter, status int, data pageData) {
	data.HomeURL = p.homeURL
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pageTmpl.Execute(w, data); err != nil {
		slog.Error("render error page", "error", err)
	}
}
