package filters

import "net/url"

// PageParam is the query parameter carrying the page number.
const PageParam = "page"

func withQuery(u *url.URL, query url.Values) string {
	out := *u
	out.RawQuery = query.Encode()
	out.Fragment = ""
	return out.String()
}

// AddFilter returns u without its page parameter and with name=value added,
// unless that exact pair is already present.
func AddFilter(u *url.URL, name, value string) string {
	query := u.Query()
	query.Del(PageParam)
	for _, existing := range query[name] {
		if existing == value {
			return withQuery(u, query)
		}
	}
	query.Add(name, value)
	return withQuery(u, query)
}

// RemoveFilter returns u without the name=value pair and without its page parameter.
func RemoveFilter(u *url.URL, name, value string) string {
	query := u.Query()
	query.Del(PageParam)
	var kept []string
	for _, existing := range query[name] {
		if existing != value {
			kept = append(kept, existing)
		}
	}
	if len(kept) == 0 {
		query.Del(name)
	} else {
		query[name] = kept
	}
	return withQuery(u, query)
}

// FieldOption is one entry of the add-filter form's field select.
type FieldOption struct {
	Label string
	Name  string
}

// FieldOptions lists the fields offered by the add-filter form.
var FieldOptions = []FieldOption{
	{Label: "Title", Name: "title"},
	{Label: "Author", Name: "author"},
	{Label: "Editor", Name: "editor"},
	{Label: "Series", Name: "series"},
	{Label: "Tag", Name: "tag"},
	{Label: "Publisher", Name: "publisher"},
}

// OperationOption is one entry of the add-filter form's match kind select.
type OperationOption struct {
	Label  string
	Suffix string
}

var OperationOptions = []OperationOption{
	{Label: "is", Suffix: Exact.Suffix()},
	{Label: "contains", Suffix: Contains.Suffix()},
	{Label: "begins with", Suffix: StartsWith.Suffix()},
	{Label: "ends with", Suffix: EndsWith.Suffix()},
}
