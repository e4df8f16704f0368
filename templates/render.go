package templates

import (
	"embed"
	"encoding/json"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed html/*.html
var files embed.FS

var pageNames = []string{
	"register",
	"customers",
	"job_list",
	"job_create",
	"job_areas",
	"job_view",
}

var pages = parsePages()

var funcs = template.FuncMap{
	"toJSON": func(v any) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	},
	"errorFor": func(errs map[string]string, key string) string { return errs[key] },
	"isActive": func(activePath, prefix string) bool {
		return activePath == prefix || (len(activePath) > len(prefix) && activePath[:len(prefix)+1] == prefix+"/")
	},
}

func parsePages() map[string]*template.Template {
	base := template.Must(template.New("layout.html").Funcs(funcs).ParseFS(files, "html/layout.html"))
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.ParseFS(files, "html/"+name+".html"))
	}
	return out
}

// pageView is the value every page template executes against.
type pageView struct {
	Title   string
	Header  HeaderData
	Sidebar SidebarData
	Data    any
}

func page(name, title string, header HeaderData, sidebar SidebarData, data any) templ.Component {
	return templ.FromGoHTML(pages[name].Lookup("layout"), pageView{
		Title:   title,
		Header:  header,
		Sidebar: sidebar,
		Data:    data,
	})
}

func RegisterPage(data RegisterData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("register", "Register Business", header, sidebar, data)
}

func CustomersPage(data CustomerListData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("customers", "Customers", header, sidebar, data)
}

func JobListPage(data JobListData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("job_list", "Jobs", header, sidebar, data)
}

func JobCreatePage(data JobCreateData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("job_create", "New Job", header, sidebar, data)
}

func JobAreasPage(data JobAreasData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("job_areas", data.JobNumber+" Areas", header, sidebar, data)
}

func JobViewPage(data JobViewData, header HeaderData, sidebar SidebarData) templ.Component {
	return page("job_view", data.JobNumber, header, sidebar, data)
}
