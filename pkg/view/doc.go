// Package view renders linked hashtags and mentions in html/template and templ views.
//
// With html/template, register FuncMap:
//
//	tmpl := template.Must(template.New("post").
//	    Funcs(view.FuncMap(cfg)).
//	    Parse(`<article>{{ hashtags .Body }}</article>`))
//
// With templ, call Tagify from a component. Both escape the text around the
// inserted anchors.
//
// Policy builds a bluemonday policy that admits exactly the anchors the
// linkifier emits, for HTML that was linked earlier and stored.
package view
